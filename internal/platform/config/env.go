package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultDataPath returns name under the per-user familyhub directory.
//
// It falls back to the working directory when the home directory cannot be
// resolved, which keeps CLI defaults usable in minimal containers.
func DefaultDataPath(name string) string {
	name = strings.TrimSpace(name)
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(".familyhub", name)
	}
	return filepath.Join(home, ".familyhub", name)
}
