// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/settleup/pkg/logging"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev-only-change-me"
)

type Config struct {
	Port   int
	DBPath string
	Env    string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  slog.Level
	LogFormat string

	// CORSOrigins lists allowed browser origins. "*" allows any.
	CORSOrigins []string
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads .env if present and then the process environment.
func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "./data/settleup.db"),
		Env:         strings.ToLower(getEnv("ENV", EnvDevelopment)),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", logging.FormatText)),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a valid port number, got %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration, got %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	level, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != logging.FormatText && cfg.LogFormat != logging.FormatJSON {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, cfg.LogFormat)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required when ENV=%s", cfg.Env)
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
