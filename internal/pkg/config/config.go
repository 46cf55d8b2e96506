package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// BackendConfig points at the external booking REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls the signed session cookie and the in-memory store.
type SessionConfig struct {
	CookieName string
	SecretKey  string
	Issuer     string
	TTL        time.Duration
	Secure     bool
}

// CacheConfig controls how long catalog responses are kept locally.
type CacheConfig struct {
	CatalogTTL time.Duration
}

type Config struct {
	ServerPort  string
	MetricsPort string
	Backend     BackendConfig
	Session     SessionConfig
	Cache       CacheConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		Backend: BackendConfig{
			BaseURL: getEnvOrDefault("BOOKING_API_URL", "http://localhost:8000/api"),
			Timeout: getDurationOrDefault("BOOKING_API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			CookieName: getEnvOrDefault("SESSION_COOKIE", "tripdesk_session"),
			SecretKey:  os.Getenv("SESSION_SECRET_KEY"),
			Issuer:     getEnvOrDefault("SESSION_ISSUER", "tripdesk"),
			TTL:        getDurationOrDefault("SESSION_TTL", 24*time.Hour),
			Secure:     getBoolOrDefault("SESSION_COOKIE_SECURE", false),
		},
		Cache: CacheConfig{
			CatalogTTL: getDurationOrDefault("CATALOG_CACHE_TTL", time.Minute),
		},
	}

	if cfg.Session.SecretKey == "" {
		return nil, fmt.Errorf("SESSION_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
