package session

import "sync"

// Credential holds the bearer token attached to outbound requests.
//
// It replaces a mutable default header: readers go through Authorization,
// and only this package can change the token.
type Credential struct {
	mu    sync.RWMutex
	token string
}

// NewCredential returns an empty credential.
func NewCredential() *Credential {
	return &Credential{}
}

// Authorization returns the header value for the current token, or "" when
// signed out.
func (c *Credential) Authorization() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return ""
	}
	return "Bearer " + c.token
}

func (c *Credential) set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credential) clear() {
	c.set("")
}
