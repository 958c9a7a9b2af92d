package storage

import (
	"context"
	"errors"
)

// KeyAuthToken is the fixed key the bearer token is stored under.
const KeyAuthToken = "auth_token"

// ErrNotFound indicates no value is stored under the requested key.
var ErrNotFound = errors.New("secret not found")

// SecretStore persists small secrets by key.
type SecretStore interface {
	GetSecret(ctx context.Context, key string) (string, error)
	PutSecret(ctx context.Context, key, value string) error
	DeleteSecret(ctx context.Context, key string) error
}
