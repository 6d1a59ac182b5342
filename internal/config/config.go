package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the frontend needs at startup.
type Config struct {
	ListenAddr   string  `koanf:"listen_addr"`
	CookieSecure bool    `koanf:"cookie_secure"`
	API          API     `koanf:"api"`
	Session      Session `koanf:"session"`
	Site         Site    `koanf:"site"`
}

// API points at the forum backend.
type API struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// Session configures the cookie and the sqlite session store.
type Session struct {
	Secret     string        `koanf:"secret"`
	DBPath     string        `koanf:"db_path"`
	TTL        time.Duration `koanf:"ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
}

// Site holds display branding used in titles and the header.
type Site struct {
	Name    string `koanf:"name"`
	Tagline string `koanf:"tagline"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:   ":8080",
		CookieSecure: true,
		API: API{
			BaseURL: "http://127.0.0.1:9000/api/v1",
			Timeout: 15 * time.Second,
		},
		Session: Session{
			DBPath:     "aibbs-web.db",
			TTL:        72 * time.Hour,
			RefreshTTL: 5 * time.Minute,
		},
		Site: Site{
			Name:    "AIBBS",
			Tagline: "The AI-driven forum",
		},
	}
}

// Load reads configuration from the given YAML file (if it exists), then
// overlays AIBBS_* environment variables. A double underscore separates
// nesting levels so single underscores survive in key names:
// AIBBS_SESSION__SECRET -> session.secret, AIBBS_LISTEN_ADDR -> listen_addr.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("AIBBS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "AIBBS_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session.secret must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.Session.DBPath == "" {
		return fmt.Errorf("session.db_path is required")
	}
	return nil
}
