package fakebackend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/familyhub/internal/platform/requestctx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// IssueToken signs a token for email that expires at expiresAt. Tests use
// it to seed stored tokens without a login round trip.
func (s *Server) IssueToken(email string, expiresAt time.Time) (string, error) {
	s.mu.Lock()
	acct, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		acct = account{Email: email, Name: email, Role: "MEMBER"}
	}
	return s.sign(acct, expiresAt)
}

func (s *Server) sign(acct account, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  acct.Email,
		"name": acct.Name,
		"role": acct.Role,
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	s.mu.Lock()
	acct, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || acct.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.sign(acct, s.now().Add(s.tokenTTL))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid register payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	s.users[key] = account{Name: strings.TrimSpace(req.Name), Email: email, Password: req.Password, Role: "MEMBER"}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handlePushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "push token is required")
		return
	}
	email := requestctx.AccountEmail(r.Context())
	s.mu.Lock()
	s.pushTokens[email] = req.Token
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth verifies the bearer token and stores the account email in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		email, err := s.verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithAccountEmail(r.Context(), email)))
	})
}

func (s *Server) verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// currentUser resolves the account of an authenticated request. It must not
// be called with s.mu held.
func (s *Server) currentUser(ctx context.Context) account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(requestctx.AccountEmail(ctx))
}
