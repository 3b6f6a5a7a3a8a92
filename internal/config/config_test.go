package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTestEnvironmentDefaults(t *testing.T) {
	t.Setenv("DM_ENVIRONMENT", "test")

	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CSRFEnabled {
		t.Fatalf("expected csrf to be disabled in test")
	}
	if cfg.SlogLevel() <= slog.LevelError {
		t.Fatalf("expected CRITICAL to silence error logs, got %v", cfg.SlogLevel())
	}
	if cfg.SessionCookieName != "dm_session" {
		t.Fatalf("unexpected cookie name %q", cfg.SessionCookieName)
	}
	if cfg.SessionLifetime != time.Hour {
		t.Fatalf("expected 1h session lifetime, got %s", cfg.SessionLifetime)
	}
	if cfg.URLPrefix != "/suppliers/opportunities" {
		t.Fatalf("unexpected prefix %q", cfg.URLPrefix)
	}
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("DM_ENVIRONMENT", "development")
	t.Setenv("DM_DATA_API_URL", "http://api.internal:9000")
	t.Setenv("PERMANENT_SESSION_LIFETIME", "4h")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataAPIURL != "http://api.internal:9000" {
		t.Fatalf("expected env override, got %q", cfg.DataAPIURL)
	}
	if cfg.SessionLifetime != 4*time.Hour {
		t.Fatalf("expected 4h lifetime, got %s", cfg.SessionLifetime)
	}
	if !cfg.SessionCookieSecure {
		t.Fatalf("expected secure cookie override")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	body := "DM_ENVIRONMENT=test\nDM_APP_NAME=from-dotenv\n"
	if err := os.WriteFile(envFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DM_ENVIRONMENT")
		os.Unsetenv("DM_APP_NAME")
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AppName != "from-dotenv" {
		t.Fatalf("expected app name from .env, got %q", cfg.AppName)
	}
}

func TestLoadLiveEnvironmentRequiresSecrets(t *testing.T) {
	t.Setenv("DM_ENVIRONMENT", "production")

	if _, err := Load(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatalf("expected validation error without api url and secrets")
	}
}

func TestRedirectDomains(t *testing.T) {
	cfg := Config{NotifyRedirectDomains: "example.com=sim@example.net, bad, Example.GOV.uk=sim2@example.net"}
	got := cfg.RedirectDomains()
	if len(got) != 2 {
		t.Fatalf("expected 2 domains, got %v", got)
	}
	if got["example.gov.uk"] != "sim2@example.net" {
		t.Fatalf("expected lower-cased domain key, got %v", got)
	}
}
