package config

import (
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Timeout int    `env:"FAMILYHUB_TEST_TIMEOUT" envDefault:"10"`
	BaseURL string `env:"FAMILYHUB_TEST_BASE_URL" envDefault:"http://localhost:8080"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Timeout != 10 {
		t.Fatalf("expected default timeout 10, got %d", cfg.Timeout)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("FAMILYHUB_TEST_TIMEOUT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestDefaultDataPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultDataPath("session.db")
	want := filepath.Join(home, ".familyhub", "session.db")
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}
