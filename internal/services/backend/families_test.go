package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

func TestFamilies(t *testing.T) {
	var invited invitationRequest
	var created createFamilyRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/families":
			_, _ = w.Write([]byte(`[{"id":"f1","name":"Silva","members":[{"email":"ana@example.com","name":"Ana","role":"ADMIN"}]}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/families":
			_ = json.NewDecoder(r.Body).Decode(&created)
			_ = json.NewEncoder(w).Encode(Family{ID: "f2", Name: created.Name})
		case r.Method == http.MethodPost && r.URL.Path == "/families/f1/invitations":
			_ = json.NewDecoder(r.Body).Decode(&invited)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}), nil)
	ctx := context.Background()

	families, err := client.ListFamilies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(families) != 1 || len(families[0].Members) != 1 || families[0].Members[0].Role != "ADMIN" {
		t.Fatalf("families = %+v", families)
	}

	family, err := client.CreateFamily(ctx, " Souza ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if family.ID != "f2" || created.Name != "Souza" {
		t.Fatalf("family = %+v, request = %+v", family, created)
	}
	if _, err := client.CreateFamily(ctx, ""); apperrors.CodeOf(err) != apperrors.CodeNameRequired {
		t.Fatalf("expected name required, got %v", err)
	}

	if err := client.InviteMember(ctx, "f1", "bo@example.com"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if invited.Email != "bo@example.com" {
		t.Fatalf("invited = %+v", invited)
	}
	if err := client.InviteMember(ctx, "f1", "bo"); apperrors.CodeOf(err) != apperrors.CodeEmailInvalid {
		t.Fatalf("expected email invalid, got %v", err)
	}
	if err := client.InviteMember(ctx, "", "bo@example.com"); apperrors.CodeOf(err) != apperrors.CodeFamilyRequired {
		t.Fatalf("expected family required, got %v", err)
	}
}
