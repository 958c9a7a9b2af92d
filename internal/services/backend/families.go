package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/services/shared/validate"
)

// Member is a family member as listed by the API.
type Member struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Family is a group sharing activities and a chat room.
type Family struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// ListFamilies returns the families of the signed-in user.
func (c *Client) ListFamilies(ctx context.Context) ([]Family, error) {
	var out []Family
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/families",
		path:   "/families",
		gated:  true,
	}, &out)
	return out, err
}

type createFamilyRequest struct {
	Name string `json:"name"`
}

// CreateFamily creates a family owned by the signed-in user.
func (c *Client) CreateFamily(ctx context.Context, name string) (Family, error) {
	name = strings.TrimSpace(name)
	if err := validate.Required(apperrors.CodeNameRequired, "name", name); err != nil {
		return Family{}, err
	}
	var out Family
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/families",
		path:   "/families",
		body:   createFamilyRequest{Name: name},
		gated:  true,
	}, &out)
	return out, err
}

type invitationRequest struct {
	Email string `json:"email"`
}

// InviteMember invites email to join a family.
func (c *Client) InviteMember(ctx context.Context, familyID, email string) error {
	familyID = strings.TrimSpace(familyID)
	email = strings.TrimSpace(email)
	if err := validate.Required(apperrors.CodeFamilyRequired, "family", familyID); err != nil {
		return err
	}
	if err := validate.Email(email); err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		route:  "/families/{id}/invitations",
		path:   "/families/" + url.PathEscape(familyID) + "/invitations",
		body:   invitationRequest{Email: email},
		gated:  true,
	}, nil)
}
