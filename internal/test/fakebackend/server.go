package fakebackend

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/net/websocket"
)

// Config tunes a Server. Zero values pick test-friendly defaults.
type Config struct {
	// SigningKey signs issued tokens. Defaults to a fixed test key.
	SigningKey []byte
	// TokenTTL is the lifetime of issued tokens. Defaults to one hour.
	TokenTTL time.Duration
	Now      func() time.Time
}

// Server is the fake API. It implements http.Handler.
type Server struct {
	router   *mux.Router
	key      []byte
	tokenTTL time.Duration
	now      func() time.Time
	hub      *roomHub

	mu         sync.Mutex
	users      map[string]account
	families   map[string]*family
	activities map[string]*activity
	pushTokens map[string]string
	requests   []RecordedRequest
	nextID     int
}

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
}

type account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// New builds a Server with cfg.
func New(cfg Config) *Server {
	key := cfg.SigningKey
	if len(key) == 0 {
		key = []byte("familyhub-fake-signing-key")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		key:        key,
		tokenTTL:   ttl,
		now:        now,
		hub:        newRoomHub(),
		users:      make(map[string]account),
		families:   make(map[string]*family),
		activities: make(map[string]*activity),
		pushTokens: make(map[string]string),
	}
	s.router = s.routes()
	return s
}

// Start serves s on a local httptest server closed at test cleanup.
func Start(t interface{ Cleanup(func()) }, cfg Config) (*Server, *httptest.Server) {
	s := New(cfg)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.requireAuth)
	api.HandleFunc("/auth/push-token", s.handlePushToken).Methods(http.MethodPost)
	api.HandleFunc("/families", s.handleListFamilies).Methods(http.MethodGet)
	api.HandleFunc("/families", s.handleCreateFamily).Methods(http.MethodPost)
	api.HandleFunc("/families/{id}/invitations", s.handleInvite).Methods(http.MethodPost)
	api.HandleFunc("/activities", s.handleListActivities).Methods(http.MethodGet)
	api.HandleFunc("/activities", s.handleCreateActivity).Methods(http.MethodPost)
	api.HandleFunc("/activities/{id}", s.handleGetActivity).Methods(http.MethodGet)
	api.HandleFunc("/activities/{id}/status", s.handleUpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/chat/{roomId}", s.handleHistory).Methods(http.MethodGet)
	api.Handle("/ws/chat", websocket.Handler(s.handleSocket)).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Requests returns the requests served so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// AddUser registers an account directly.
func (s *Server) AddUser(name, email, password, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = account{Name: name, Email: email, Password: password, Role: role}
}

// PushToken returns the push token registered for email.
func (s *Server) PushToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushTokens[strings.ToLower(email)]
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

type errorBody struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("fakebackend: write response err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: status, Error: message})
}

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
