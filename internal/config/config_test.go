package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost user=test dbname=test")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected default environment development, got %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 7090 {
		t.Fatalf("expected default port 7090, got %d", cfg.HTTP.Port)
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
	if cfg.Dashboard.CacheTTL != 5*time.Minute {
		t.Fatalf("expected default cache TTL 5m, got %s", cfg.Dashboard.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost user=test dbname=test")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "production" {
		t.Fatalf("expected environment production, got %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.HTTP.Port)
	}
	if cfg.Dashboard.CacheTTL != 30*time.Second {
		t.Fatalf("expected cache TTL 30s, got %s", cfg.Dashboard.CacheTTL)
	}
	if cfg.Dashboard.RedisAddr != "localhost:6379" {
		t.Fatalf("expected redis addr, got %q", cfg.Dashboard.RedisAddr)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without DB_DSN")
	}

	t.Setenv("DB_DSN", "host=localhost user=test dbname=test")
	t.Setenv("JWT_ACCESS_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without JWT_ACCESS_SECRET")
	}
}
