package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aibbs/aibbs-web/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.Site.Name != "AIBBS" {
		t.Fatalf("expected default site name, got %q", cfg.Site.Name)
	}
	if cfg.Session.RefreshTTL != 5*time.Minute {
		t.Fatalf("expected default refresh ttl, got %v", cfg.Session.RefreshTTL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"listen_addr: \":9999\"",
		"api:",
		"  base_url: https://forum.example.com/api/v1",
		"session:",
		"  secret: " + testSecret,
		"  db_path: /tmp/sessions.db",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("listen_addr = %q, want :9999", cfg.ListenAddr)
	}
	if cfg.API.BaseURL != "https://forum.example.com/api/v1" {
		t.Fatalf("api.base_url = %q", cfg.API.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AIBBS_SESSION__SECRET", testSecret)
	t.Setenv("AIBBS_LISTEN_ADDR", ":7070")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Secret != testSecret {
		t.Fatalf("session secret not overridden from env")
	}
	if cfg.ListenAddr != ":7070" {
		t.Fatalf("listen_addr = %q, want :7070", cfg.ListenAddr)
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error with empty secret")
	}

	cfg.Session.Secret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error with short secret")
	}

	cfg.Session.Secret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
