package config

import (
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "WATCHLIST_PATH",
		"TARGET_TIMEZONE", "MODEL_WEIGHTS_PATH", "ADMIN_SECRET",
		"RATE_LIMIT_RPS", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %s, want %s", cfg.Port, DefaultPort)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("Env = %s, want %s", cfg.Env, DefaultEnv)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %s, want %s", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.RateLimitRPS != DefaultRateLimit {
		t.Errorf("RateLimitRPS = %d, want %d", cfg.RateLimitRPS, DefaultRateLimit)
	}
	if cfg.DatabaseURL != "" || cfg.WatchlistPath != "" || cfg.AdminSecret != "" {
		t.Error("optional settings should default to empty")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/crowsnest")
	t.Setenv("TARGET_TIMEZONE", "EU")
	t.Setenv("RATE_LIMIT_RPS", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9999" || cfg.Env != "staging" || cfg.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://localhost/crowsnest" {
		t.Errorf("DatabaseURL = %s", cfg.DatabaseURL)
	}
	if cfg.TargetTimezone != "EU" {
		t.Errorf("TargetTimezone = %s, want EU", cfg.TargetTimezone)
	}
	if cfg.RateLimitRPS != 42 {
		t.Errorf("RateLimitRPS = %d, want 42", cfg.RateLimitRPS)
	}
}

func TestLoad_InvalidRateLimitFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimitRPS != DefaultRateLimit {
		t.Errorf("RateLimitRPS = %d, want default on parse failure", cfg.RateLimitRPS)
	}
}

func TestValidate_TargetTimezone(t *testing.T) {
	for _, tz := range []string{"", "EU", "US", "AU"} {
		cfg := &Config{Env: "development", TargetTimezone: tz}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want ok", tz, err)
		}
	}

	cfg := &Config{Env: "development", TargetTimezone: "RU"}
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported timezone should fail validation")
	}
}

func TestValidate_ProductionRequiresAdminSecret(t *testing.T) {
	cfg := &Config{Env: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("production without ADMIN_SECRET should fail validation")
	}

	cfg.AdminSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("production with ADMIN_SECRET = %v, want ok", err)
	}
}
