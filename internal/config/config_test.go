package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.SessionTTL != 7*24*time.Hour {
		t.Fatalf("unexpected default session ttl: %v", cfg.Auth.SessionTTL)
	}
	if cfg.App.MarketplacePageSize != 20 || cfg.App.MatchesLimit != 100 {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("env: prod\nhttp:\n  addr: \":9090\"\npostgres:\n  dsn: \"postgres://x\"\napp:\n  matches_limit: 25\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "prod" {
		t.Fatalf("unexpected env: %q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Postgres.DSN != "postgres://x" {
		t.Fatalf("unexpected dsn: %q", cfg.Postgres.DSN)
	}
	if cfg.App.MatchesLimit != 25 {
		t.Fatalf("unexpected matches limit: %d", cfg.App.MatchesLimit)
	}
	// keys absent from the file keep their defaults
	if cfg.App.MarketplacePageSize != 20 {
		t.Fatalf("unexpected marketplace page size: %d", cfg.App.MarketplacePageSize)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("DATABASE_URL", "postgres://from-env")
	t.Setenv("SESSION_TTL", "48h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("unexpected addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Postgres.DSN != "postgres://from-env" {
		t.Fatalf("unexpected dsn: %q", cfg.Postgres.DSN)
	}
	if cfg.Auth.SessionTTL != 48*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Auth.SessionTTL)
	}
}

func TestEnvOverrideBadDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for malformed duration")
	}
}
