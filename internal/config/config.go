package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment     string
	HTTPPort        string
	DatabasePath    string
	JWTSecret       string
	TokenTTLMinutes int
	RetentionDays   int
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:     getEnv("COREADMIN_ENV", "development"),
		HTTPPort:        getEnv("COREADMIN_HTTP_PORT", "8080"),
		DatabasePath:    getEnv("COREADMIN_DB_PATH", filepath.Join("data", "coreadmin.db")),
		JWTSecret:       getEnv("COREADMIN_JWT_SECRET", ""),
		TokenTTLMinutes: getEnvInt("COREADMIN_TOKEN_TTL_MINUTES", 1440),
		RetentionDays:   getEnvInt("COREADMIN_EVENT_RETENTION_DAYS", 365),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return Config{}, fmt.Errorf("COREADMIN_JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "development-only-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// SessionDuration is the lifetime of issued session tokens.
func (c Config) SessionDuration() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}
