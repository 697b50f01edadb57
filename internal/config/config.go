// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Vetting settings
	WatchlistPath    string // YAML watchlist of hostile entities (optional)
	TargetTimezone   string // corp's primary timezone: "EU", "US", "AU" (optional)
	ModelWeightsPath string // trained model weights file (optional; model evaluator off when unset)

	// Security
	AdminSecret  string // gates rule-management endpoints
	RateLimitRPS int

	// Observability
	OTLPEndpoint string
}

// Defaults
const (
	DefaultPort      = "8080"
	DefaultEnv       = "development"
	DefaultLogLevel  = "info"
	DefaultRateLimit = 100
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", DefaultPort),
		Env:              getEnv("ENV", DefaultEnv),
		LogLevel:         getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:      os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		WatchlistPath:    os.Getenv("WATCHLIST_PATH"),
		TargetTimezone:   os.Getenv("TARGET_TIMEZONE"),
		ModelWeightsPath: os.Getenv("MODEL_WEIGHTS_PATH"),
		AdminSecret:      os.Getenv("ADMIN_SECRET"),
		RateLimitRPS:     getEnvInt("RATE_LIMIT_RPS", DefaultRateLimit),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.TargetTimezone {
	case "", "EU", "US", "AU":
	default:
		return fmt.Errorf("TARGET_TIMEZONE must be one of EU, US, AU (got %q)", c.TargetTimezone)
	}
	if c.IsProduction() && c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required in production")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
