package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/services/session/storage"
)

type fakeStore struct {
	mu        sync.Mutex
	values    map[string]string
	getErr    error
	putErr    error
	deleteErr error
	deletes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (s *fakeStore) GetSecret(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) PutSecret(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = value
	return nil
}

func (s *fakeStore) DeleteSecret(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.values, key)
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

type fakeAuth struct {
	token      string
	loginErr   error
	pushErr    error
	pushTokens []string
	registered []string
	logins     int
}

func (a *fakeAuth) Login(context.Context, string, string) (string, error) {
	a.logins++
	return a.token, a.loginErr
}

func (a *fakeAuth) Register(_ context.Context, name, email, _ string) error {
	a.registered = append(a.registered, name+"|"+email)
	return nil
}

func (a *fakeAuth) RegisterPushToken(_ context.Context, pushToken string) error {
	a.pushTokens = append(a.pushTokens, pushToken)
	return a.pushErr
}

type fakeNavigator struct {
	authenticated   []Identity
	unauthenticated int
}

func (n *fakeNavigator) ToAuthenticated(identity Identity) {
	n.authenticated = append(n.authenticated, identity)
}

func (n *fakeNavigator) ToUnauthenticated() { n.unauthenticated++ }

type failingPush struct{}

func (failingPush) PushToken(context.Context) (string, error) {
	return "", errors.New("permission denied")
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(store *fakeStore, auth *fakeAuth, nav Navigator, push PushTokenSource) *Manager {
	return NewManager(NewCredential(), store, auth, Options{
		Push:      push,
		Navigator: nav,
		Now:       func() time.Time { return fixedNow },
	})
}

func tokenExpiringAt(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{"sub": sub, "exp": exp.Unix()})
}

func TestValidateTokenAliceScenario(t *testing.T) {
	store := newFakeStore()
	store.values[storage.KeyAuthToken] = tokenExpiringAt(t, `{"name":"alice@example.com"}`, fixedNow.Add(3600*time.Second))
	nav := &fakeNavigator{}
	m := newTestManager(store, &fakeAuth{}, nav, nil)

	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
	if got := m.Identity().Name; got != "alice@example.com" {
		t.Fatalf("identity name = %q", got)
	}
	if m.Credential().Authorization() == "" {
		t.Fatal("expected credential installed")
	}
	if len(nav.authenticated) != 1 {
		t.Fatalf("navigations = %d", len(nav.authenticated))
	}
}

func TestValidateTokenExpiredLogsOut(t *testing.T) {
	for _, age := range []time.Duration{time.Second, time.Hour, 30 * 24 * time.Hour} {
		store := newFakeStore()
		store.values[storage.KeyAuthToken] = tokenExpiringAt(t, "alice", fixedNow.Add(-age))
		nav := &fakeNavigator{}
		m := newTestManager(store, &fakeAuth{}, nav, nil)

		if err := m.ValidateToken(context.Background()); err != nil {
			t.Fatalf("validate: %v", err)
		}
		if m.IsAuthenticated() {
			t.Fatalf("age %v: expected unauthenticated", age)
		}
		if store.has(storage.KeyAuthToken) {
			t.Fatalf("age %v: expected stored token removed", age)
		}
		if nav.unauthenticated != 1 {
			t.Fatalf("age %v: unauthenticated navigations = %d", age, nav.unauthenticated)
		}
	}
}

func TestValidateTokenExpiringNowIsExpired(t *testing.T) {
	store := newFakeStore()
	store.values[storage.KeyAuthToken] = tokenExpiringAt(t, "alice", fixedNow)
	m := newTestManager(store, &fakeAuth{}, &fakeNavigator{}, nil)
	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.IsAuthenticated() || store.has(storage.KeyAuthToken) {
		t.Fatal("expected logout for token expiring at now")
	}
}

func TestValidateTokenUndecodableLogsOut(t *testing.T) {
	for _, token := range []string{"garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30.sig"} {
		store := newFakeStore()
		store.values[storage.KeyAuthToken] = token
		m := newTestManager(store, &fakeAuth{}, &fakeNavigator{}, nil)

		if err := m.ValidateToken(context.Background()); err != nil {
			t.Fatalf("validate %q: %v", token, err)
		}
		if m.IsAuthenticated() {
			t.Fatalf("token %q: expected unauthenticated", token)
		}
		if store.has(storage.KeyAuthToken) {
			t.Fatalf("token %q: expected stored token removed", token)
		}
	}
}

func TestValidateTokenMissingIsSilent(t *testing.T) {
	store := newFakeStore()
	nav := &fakeNavigator{}
	m := newTestManager(store, &fakeAuth{}, nav, nil)
	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("expected unauthenticated")
	}
	if store.deletes != 0 || nav.unauthenticated != 0 {
		t.Fatal("missing token should not trigger logout")
	}
}

func TestIsAuthenticatedTracksClock(t *testing.T) {
	now := fixedNow
	store := newFakeStore()
	store.values[storage.KeyAuthToken] = tokenExpiringAt(t, "alice", fixedNow.Add(time.Minute))
	m := NewManager(NewCredential(), store, &fakeAuth{}, Options{Now: func() time.Time { return now }})
	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
	now = fixedNow.Add(2 * time.Minute)
	if m.IsAuthenticated() {
		t.Fatal("expected expiry to be checked on every call")
	}
}

func TestLoginInstallsSession(t *testing.T) {
	token := tokenExpiringAt(t, `{"name":"Ana","email":"ana@example.com","role":"ADMIN"}`, fixedNow.Add(time.Hour))
	store := newFakeStore()
	auth := &fakeAuth{token: token}
	nav := &fakeNavigator{}
	m := newTestManager(store, auth, nav, StaticPushToken("device-1"))

	if err := m.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
	if got := m.Credential().Authorization(); got != "Bearer "+token {
		t.Fatalf("authorization = %q", got)
	}
	if store.values[storage.KeyAuthToken] != token {
		t.Fatal("expected token persisted")
	}
	if m.Identity().Role != "ADMIN" {
		t.Fatalf("identity = %+v", m.Identity())
	}
	if len(auth.pushTokens) != 1 || auth.pushTokens[0] != "device-1" {
		t.Fatalf("push tokens = %v", auth.pushTokens)
	}
	if len(nav.authenticated) != 1 {
		t.Fatal("expected navigation to authenticated area")
	}
	if !m.ExpiresAt().Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("expiresAt = %v", m.ExpiresAt())
	}
}

func TestLoginPushFailureDoesNotFailLogin(t *testing.T) {
	token := tokenExpiringAt(t, "ana@example.com", fixedNow.Add(time.Hour))

	auth := &fakeAuth{token: token, pushErr: errors.New("push endpoint down")}
	m := newTestManager(newFakeStore(), auth, nil, StaticPushToken("device-1"))
	if err := m.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login with push endpoint failure: %v", err)
	}

	m = newTestManager(newFakeStore(), &fakeAuth{token: token}, nil, failingPush{})
	if err := m.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login without push permission: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuth{loginErr: apperrors.New(apperrors.CodeNoConnectivity, "offline")}
	nav := &fakeNavigator{}
	m := newTestManager(store, auth, nav, nil)

	err := m.Login(context.Background(), "ana@example.com", "secret")
	if apperrors.CodeOf(err) != apperrors.CodeNoConnectivity {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if m.IsAuthenticated() || m.Credential().Authorization() != "" {
		t.Fatal("expected no partial login")
	}
	if store.has(storage.KeyAuthToken) || len(nav.authenticated) != 0 {
		t.Fatal("expected nothing persisted or navigated")
	}
}

func TestLoginRejectsUndecodableToken(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, &fakeAuth{token: "opaque"}, nil, nil)
	err := m.Login(context.Background(), "ana@example.com", "secret")
	if apperrors.CodeOf(err) != apperrors.CodeTokenInvalid {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if store.has(storage.KeyAuthToken) || m.IsAuthenticated() {
		t.Fatal("expected nothing persisted")
	}
}

func TestLoginPersistFailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("disk full")
	token := tokenExpiringAt(t, "ana@example.com", fixedNow.Add(time.Hour))
	m := newTestManager(store, &fakeAuth{token: token}, nil, nil)
	if err := m.Login(context.Background(), "ana@example.com", "secret"); err == nil {
		t.Fatal("expected persist error")
	}
	if m.IsAuthenticated() || m.Credential().Authorization() != "" {
		t.Fatal("expected no partial login")
	}
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	auth := &fakeAuth{}
	m := newTestManager(newFakeStore(), auth, nil, nil)
	if apperrors.CodeOf(m.Login(context.Background(), "not-an-email", "secret")) != apperrors.CodeEmailInvalid {
		t.Fatal("expected email validation error")
	}
	if apperrors.CodeOf(m.Login(context.Background(), "ana@example.com", "")) != apperrors.CodePasswordTooShort {
		t.Fatal("expected password validation error")
	}
	if auth.logins != 0 {
		t.Fatal("expected no network call")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	token := tokenExpiringAt(t, "ana@example.com", fixedNow.Add(time.Hour))
	store := newFakeStore()
	nav := &fakeNavigator{}
	m := newTestManager(store, &fakeAuth{token: token}, nav, nil)
	if err := m.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if m.IsAuthenticated() || !m.Identity().IsZero() {
		t.Fatal("expected cleared session")
	}
	if m.Credential().Authorization() != "" {
		t.Fatal("expected cleared credential")
	}
	if store.has(storage.KeyAuthToken) {
		t.Fatal("expected stored token removed")
	}
	if nav.unauthenticated != 1 {
		t.Fatal("expected navigation to unauthenticated area")
	}
}

func TestValidateTokenUnreadableStoreLogsOut(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("database is locked")
	nav := &fakeNavigator{}
	m := newTestManager(store, &fakeAuth{}, nav, nil)

	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if m.IsAuthenticated() || m.Credential().Authorization() != "" {
		t.Fatal("expected signed out")
	}
	if store.deletes != 1 {
		t.Fatalf("deletes = %d, want 1", store.deletes)
	}
	if nav.unauthenticated != 1 {
		t.Fatal("expected navigation to unauthenticated area")
	}
}

func TestLogoutSucceedsLocallyWhenStorageFails(t *testing.T) {
	token := tokenExpiringAt(t, "ana@example.com", fixedNow.Add(time.Hour))
	store := newFakeStore()
	m := newTestManager(store, &fakeAuth{token: token}, nil, nil)
	if err := m.Login(context.Background(), "ana@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.deleteErr = errors.New("locked")

	if err := m.Logout(context.Background()); err == nil {
		t.Fatal("expected storage error to be reported")
	}
	if m.IsAuthenticated() || m.Credential().Authorization() != "" {
		t.Fatal("expected local logout despite storage failure")
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := &fakeAuth{}
	m := newTestManager(newFakeStore(), auth, nil, nil)
	ctx := context.Background()

	tests := []struct {
		in   RegisterInput
		want apperrors.Code
	}{
		{RegisterInput{Name: "", Email: "a@b.co", Password: "secret"}, apperrors.CodeNameRequired},
		{RegisterInput{Name: "Ana", Email: "nope", Password: "secret"}, apperrors.CodeEmailInvalid},
		{RegisterInput{Name: "Ana", Email: "a@b.co", Password: "12345"}, apperrors.CodePasswordTooShort},
	}
	for _, tt := range tests {
		if got := apperrors.CodeOf(m.Register(ctx, tt.in)); got != tt.want {
			t.Errorf("Register(%+v) code = %s, want %s", tt.in, got, tt.want)
		}
	}
	if len(auth.registered) != 0 {
		t.Fatal("expected no network call for invalid input")
	}

	if err := m.Register(ctx, RegisterInput{Name: " Ana ", Email: "a@b.co", Password: "secret"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(auth.registered) != 1 || auth.registered[0] != "Ana|a@b.co" {
		t.Fatalf("registered = %v", auth.registered)
	}
	if m.IsAuthenticated() {
		t.Fatal("register should not sign in")
	}
}
