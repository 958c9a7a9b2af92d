package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

type staticAuth string

func (s staticAuth) Authorization() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, auth Authorizer) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL}, auth)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestNewClientValidation(t *testing.T) {
	for _, raw := range []string{"", "  ", "ftp://example.com", "://bad"} {
		if _, err := NewClient(Config{BaseURL: raw}, nil); err == nil {
			t.Errorf("NewClient(%q) expected error", raw)
		}
	}
	client, err := NewClient(Config{BaseURL: "https://api.example.com/v1/"}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.BaseURL() != "https://api.example.com/v1" {
		t.Fatalf("BaseURL() = %q", client.BaseURL())
	}
	if client.http.Timeout != 10*time.Second || client.probe.Timeout != 3*time.Second {
		t.Fatalf("timeouts = %v / %v", client.http.Timeout, client.probe.Timeout)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   apperrors.Code
	}{
		{http.StatusBadRequest, apperrors.CodeBadRequest},
		{http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{http.StatusForbidden, apperrors.CodeForbidden},
		{http.StatusNotFound, apperrors.CodeNotFound},
		{http.StatusInternalServerError, apperrors.CodeServerError},
		{http.StatusBadGateway, apperrors.CodeUnexpectedStatus},
		{http.StatusTeapot, apperrors.CodeUnexpectedStatus},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]any{"status": tt.status, "error": "boom"})
			}), nil)

			_, err := client.ListFamilies(context.Background())
			if got := apperrors.CodeOf(err); got != tt.want {
				t.Fatalf("code = %s, want %s", got, tt.want)
			}
			if got := apperrors.CodeOf(err).Category(); got != apperrors.CategoryServer {
				t.Fatalf("category = %s", got)
			}
			if apperrors.MetadataOf(err)["Detail"] != "boom" {
				t.Fatalf("metadata = %v", apperrors.MetadataOf(err))
			}
		})
	}
}

func TestStatusMappingToleratesNonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain failure", http.StatusInternalServerError)
	}), nil)
	_, err := client.ListFamilies(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeServerError {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if apperrors.MetadataOf(err)["Detail"] != "" {
		t.Fatalf("metadata = %v", apperrors.MetadataOf(err))
	}
}

func TestNetworkFailureMapsToFallback(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.ListFamilies(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeNetwork {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.ListFamilies(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeNetwork {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
}

func TestProbeGatesCalls(t *testing.T) {
	var apiHits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiHits.Add(1)
		_, _ = w.Write([]byte("[]"))
	}))
	defer api.Close()

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer healthy.Close()

	tests := []struct {
		name     string
		probeURL string
		wantErr  apperrors.Code
		wantHits int32
	}{
		{"unreachable", downURL, apperrors.CodeNoConnectivity, 0},
		{"unhealthy", unhealthy.URL, apperrors.CodeNoConnectivity, 0},
		{"healthy", healthy.URL, "", 1},
		{"disabled", "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiHits.Store(0)
			client, err := NewClient(Config{BaseURL: api.URL, ProbeURL: tt.probeURL}, nil)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.ListFamilies(context.Background())
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && apperrors.CodeOf(err) != tt.wantErr {
				t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), tt.wantErr)
			}
			if got := apiHits.Load(); got != tt.wantHits {
				t.Fatalf("api hits = %d, want %d", got, tt.wantHits)
			}
		})
	}
}

func TestPushTokenIsNotGated(t *testing.T) {
	var got pushTokenRequest
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/push-token" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer api.Close()

	client, err := NewClient(Config{BaseURL: api.URL, ProbeURL: "http://127.0.0.1:1/unreachable"}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.RegisterPushToken(context.Background(), "device-1"); err != nil {
		t.Fatalf("register push token: %v", err)
	}
	if got.Token != "device-1" {
		t.Fatalf("token = %q", got.Token)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var header string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}), staticAuth("Bearer abc"))

	if _, err := client.ListFamilies(context.Background()); err != nil {
		t.Fatalf("list families: %v", err)
	}
	if header != "Bearer abc" {
		t.Fatalf("Authorization = %q", header)
	}

	anonymous, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}), staticAuth(""))
	if _, err := anonymous.ListFamilies(context.Background()); err != nil {
		t.Fatalf("list families: %v", err)
	}
	if header != "" {
		t.Fatalf("expected no Authorization header, got %q", header)
	}
}

func TestLoginAcceptsTokenFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr apperrors.Code
	}{
		{"token", `{"token":"t1"}`, "t1", ""},
		{"accessToken", `{"accessToken":"t2"}`, "t2", ""},
		{"missing", `{}`, "", apperrors.CodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got loginRequest
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login" {
					t.Errorf("path = %s", r.URL.Path)
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				_, _ = w.Write([]byte(tt.body))
			}), nil)

			token, err := client.Login(context.Background(), "ana@example.com", "secret")
			if tt.wantErr != "" {
				if apperrors.CodeOf(err) != tt.wantErr {
					t.Fatalf("code = %s", apperrors.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if token != tt.want {
				t.Fatalf("token = %q", token)
			}
			if got.Email != "ana@example.com" || got.Password != "secret" {
				t.Fatalf("request = %+v", got)
			}
		})
	}
}

func TestRegisterPostsForm(t *testing.T) {
	var got registerRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}), nil)
	if err := client.Register(context.Background(), "Ana", "ana@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got != (registerRequest{Name: "Ana", Email: "ana@example.com", Password: "secret"}) {
		t.Fatalf("request = %+v", got)
	}
}

func TestChatHistoryReturnsRawBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/room-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":"m1","content":"hi"}]`))
	}), nil)
	raw, err := client.ChatHistory(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("chat history: %v", err)
	}
	if string(raw) != `[{"id":"m1","content":"hi"}]` {
		t.Fatalf("raw = %s", raw)
	}
	if _, err := client.ChatHistory(context.Background(), " "); apperrors.CodeOf(err) != apperrors.CodeRoomRequired {
		t.Fatalf("expected room required, got %v", err)
	}
}

func TestPathSegmentsAreEscapedOnce(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPatch:
			_, _ = w.Write([]byte(`{"id":"a/b","title":"x","status":"COMPLETED"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL + "/v1/"}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ChatHistory(ctx, "family one"); err != nil {
		t.Fatalf("chat history: %v", err)
	}
	if _, err := client.UpdateActivityStatus(ctx, "a/b", StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := client.InviteMember(ctx, "fam%1", "bo@example.com"); err != nil {
		t.Fatalf("invite: %v", err)
	}

	want := []string{
		"GET /v1/chat/family%20one",
		"PATCH /v1/activities/a%2Fb/status",
		"POST /v1/families/fam%251/invitations",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}
