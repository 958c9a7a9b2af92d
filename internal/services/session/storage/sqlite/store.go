package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/familyhub/internal/platform/secret"
	sqlitemigrate "github.com/louisbranch/familyhub/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/familyhub/internal/services/session/storage"
	"github.com/louisbranch/familyhub/internal/services/session/storage/sqlite/migrations"
)

// Store persists sealed secrets in SQLite.
type Store struct {
	sqlDB  *sql.DB
	sealer *secret.Sealer
	now    func() time.Time
}

var _ storage.SecretStore = (*Store)(nil)

// Open opens a SQLite secret store at path, applies migrations, and seals
// values with a key derived from passphrase.
func Open(ctx context.Context, path, passphrase string) (*Store, error) {
	sealer, err := secret.NewSealerFromPassphrase(passphrase)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sqlitemigrate.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, sealer: sealer, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetSecret returns the opened value stored under key.
func (s *Store) GetSecret(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", errors.New("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("secret key is required")
	}

	var sealed string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT sealed_value FROM secrets WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get secret: %w", err)
	}
	value, err := s.sealer.Open(sealed, key)
	if err != nil {
		return "", fmt.Errorf("open secret %s: %w", key, err)
	}
	return value, nil
}

// PutSecret seals value and upserts it under key.
func (s *Store) PutSecret(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("secret key is required")
	}
	if value == "" {
		return errors.New("secret value is required")
	}

	sealed, err := s.sealer.Seal(value, key)
	if err != nil {
		return fmt.Errorf("seal secret: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO secrets (key, sealed_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	sealed_value = excluded.sealed_value,
	updated_at = excluded.updated_at
`, key, sealed, s.now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("put secret: %w", err)
	}
	return nil
}

// DeleteSecret removes key. Deleting a missing key is not an error.
func (s *Store) DeleteSecret(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, strings.TrimSpace(key)); err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}
