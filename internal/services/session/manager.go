package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/services/session/storage"
	"github.com/louisbranch/familyhub/internal/services/shared/validate"
)

// AuthAPI is the slice of the backend the manager calls.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
	RegisterPushToken(ctx context.Context, pushToken string) error
}

// PushTokenSource yields the device push token registered at login.
type PushTokenSource interface {
	PushToken(ctx context.Context) (string, error)
}

// StaticPushToken is a PushTokenSource backed by a configured value.
type StaticPushToken string

// PushToken returns the configured token.
func (s StaticPushToken) PushToken(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Navigator moves the user between the signed-in and signed-out areas.
type Navigator interface {
	ToAuthenticated(identity Identity)
	ToUnauthenticated()
}

// RegisterInput is the account registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Options configures optional Manager collaborators.
type Options struct {
	Push PushTokenSource
	// Navigator is called after login and logout. Leave it unset rather than
	// assigning a typed nil pointer.
	Navigator Navigator
	Now       func() time.Time
}

// Manager owns the session state and the shared credential.
type Manager struct {
	credential *Credential
	store      storage.SecretStore
	auth       AuthAPI
	push       PushTokenSource
	navigator  Navigator
	now        func() time.Time

	mu        sync.Mutex
	token     string
	identity  Identity
	expiresAt time.Time
}

// NewManager builds a manager that writes tokens to credential and store.
func NewManager(credential *Credential, store storage.SecretStore, auth AuthAPI, opts Options) *Manager {
	if credential == nil {
		credential = NewCredential()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		credential: credential,
		store:      store,
		auth:       auth,
		push:       opts.Push,
		navigator:  opts.Navigator,
		now:        now,
	}
}

// Credential returns the credential requests read their header from.
func (m *Manager) Credential() *Credential {
	return m.credential
}

// Identity returns the signed-in principal, or the zero Identity.
func (m *Manager) Identity() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// ExpiresAt returns the current token expiry, or the zero time.
func (m *Manager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiresAt
}

// IsAuthenticated reports whether a decodable, unexpired token is installed.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.now().Before(m.expiresAt)
}

// Login exchanges credentials for a token and installs it. Failures leave
// the session unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		return err
	}
	if err := validate.Password(password, 1); err != nil {
		return err
	}
	if m.auth == nil {
		return errors.New("auth api is not configured")
	}

	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	claims, err := DecodeToken(token)
	if err != nil {
		return err
	}
	if !m.now().Before(claims.ExpiresAt) {
		return apperrors.New(apperrors.CodeTokenExpired, "login returned an expired token")
	}
	if err := m.persist(ctx, token); err != nil {
		return err
	}
	m.install(token, claims)
	log.Printf("session: login ok identity=%q", claims.Identity.ID)

	m.registerPush(ctx)
	if m.navigator != nil {
		m.navigator.ToAuthenticated(claims.Identity)
	}
	return nil
}

// Logout clears the session locally. The credential is cleared before the
// stored token is deleted; a storage error is returned for logging only.
func (m *Manager) Logout(ctx context.Context) error {
	m.credential.clear()
	m.mu.Lock()
	m.token = ""
	m.identity = Identity{}
	m.expiresAt = time.Time{}
	m.mu.Unlock()

	var storeErr error
	if m.store != nil {
		if err := m.store.DeleteSecret(ctx, storage.KeyAuthToken); err != nil && !errors.Is(err, storage.ErrNotFound) {
			storeErr = apperrors.Wrap(apperrors.CodeUnknown, "delete stored token", err)
			log.Printf("session: delete stored token: %v", err)
		}
	}
	if m.navigator != nil {
		m.navigator.ToUnauthenticated()
	}
	return storeErr
}

// ValidateToken restores the session from storage at start-up. A missing
// token leaves the session signed out. An undecodable or expired token
// triggers Logout.
func (m *Manager) ValidateToken(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	token, err := m.store.GetSecret(ctx, storage.KeyAuthToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("session: read stored token: %v", err)
		return m.Logout(ctx)
	}

	claims, err := DecodeToken(token)
	if err == nil && !m.now().Before(claims.ExpiresAt) {
		err = apperrors.New(apperrors.CodeTokenExpired, "stored token is expired")
	}
	if err != nil {
		log.Printf("session: stored token rejected code=%s", apperrors.CodeOf(err))
		return m.Logout(ctx)
	}

	m.install(token, claims)
	if m.navigator != nil {
		m.navigator.ToAuthenticated(claims.Identity)
	}
	return nil
}

// Register validates the form and creates an account. It does not sign in.
func (m *Manager) Register(ctx context.Context, in RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Required(apperrors.CodeNameRequired, "name", in.Name); err != nil {
		return err
	}
	if err := validate.Email(in.Email); err != nil {
		return err
	}
	if err := validate.Password(in.Password, validate.MinPasswordLength); err != nil {
		return err
	}
	if m.auth == nil {
		return errors.New("auth api is not configured")
	}
	return m.auth.Register(ctx, in.Name, in.Email, in.Password)
}

func (m *Manager) persist(ctx context.Context, token string) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.PutSecret(ctx, storage.KeyAuthToken, token); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "persist token", err)
	}
	return nil
}

func (m *Manager) install(token string, claims Claims) {
	m.mu.Lock()
	m.token = token
	m.identity = claims.Identity
	m.expiresAt = claims.ExpiresAt
	m.credential.set(token)
	m.mu.Unlock()
}

func (m *Manager) registerPush(ctx context.Context) {
	if m.push == nil {
		return
	}
	pushToken, err := m.push.PushToken(ctx)
	if err != nil {
		log.Printf("session: push token unavailable: %v", err)
		return
	}
	if pushToken == "" {
		return
	}
	if err := m.auth.RegisterPushToken(ctx, pushToken); err != nil {
		log.Printf("session: register push token: %v", err)
	}
}
