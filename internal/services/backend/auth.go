package backend

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
		gated:  true,
	}, &resp)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(resp.Token)
	if token == "" {
		token = strings.TrimSpace(resp.AccessToken)
	}
	if token == "" {
		return "", apperrors.New(apperrors.CodeTokenInvalid, "login response has no token")
	}
	return token, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/register",
		path:   "/auth/register",
		body:   registerRequest{Name: name, Email: email, Password: password},
		gated:  true,
	}, nil)
}

// RegisterPushToken records the device push token for the signed-in user.
func (c *Client) RegisterPushToken(ctx context.Context, pushToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/push-token",
		path:   "/auth/push-token",
		body:   pushTokenRequest{Token: pushToken},
	}, nil)
}
