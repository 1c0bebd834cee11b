package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultServerAddr     = ":8080"
	defaultDatabaseURL    = "deployhub.db"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTAccessTTL   = "24h"
	defaultWebhookTimeout = "30s"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	ServerAddr     string
	DatabaseURL    string
	JWTSecret      string
	JWTAccessTTL   time.Duration
	WebhookURL     string
	WebhookTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:  getEnv("SERVER_ADDR", defaultServerAddr),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		WebhookURL:  strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
	}

	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("config: WEBHOOK_URL is empty")
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.WebhookTimeout, err = parseDurationEnv("WEBHOOK_TIMEOUT", defaultWebhookTimeout)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %q", key, raw)
	}
	return d, nil
}
