// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvProduction is the APP_ENV value that hides internal error detail from clients.
const EnvProduction = "production"

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	// Must use the postgres:// or postgresql:// scheme.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// Env is the deployment environment. Defaults to "development".
	Env string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:4200"] (Angular dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DBMaxConns caps the pgx pool size. Defaults to 10.
	DBMaxConns int32

	// RateLimitRequests is the number of requests each client IP may make to
	// /api per RateLimitWindow. Defaults to 100 per 15 minutes.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 10 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving. Defaults to true.
	MigrateOnStart bool
}

// Production reports whether the server runs with APP_ENV=production.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// SlogLevel returns LogLevel as a slog.Level. Load has already validated it.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// variable whose value cannot be parsed; malformed values never fall back to
// the default silently.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Env:               getEnv("APP_ENV", "development"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		DBMaxConns:        int32(p.positiveInt("DB_MAX_CONNS", 10)),
		RateLimitRequests: p.positiveInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   p.duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		MaxBodyBytes:      int64(p.positiveInt("MAX_BODY_BYTES", 10<<20)),
		MigrateOnStart:    p.bool("MIGRATE_ON_START", true),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	} else if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		p.fail("DATABASE_URL", "must start with postgres:// or postgresql://")
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		p.fail("PORT", fmt.Sprintf("%q is not a valid port", cfg.Port))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		p.fail("LOG_LEVEL", fmt.Sprintf("%q is not one of debug, info, warn, error", cfg.LogLevel))
	}
	if len(cfg.CORSOrigins) == 0 {
		p.fail("CORS_ORIGINS", "must list at least one origin")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	errs = append(errs, p.errs...)
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// parser accumulates errors for malformed optional variables.
type parser struct {
	errs []error
}

func (p *parser) fail(key, reason string) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s: %s", key, reason))
}

func (p *parser) positiveInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.fail(key, fmt.Sprintf("%q is not a positive integer", v))
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.fail(key, fmt.Sprintf("%q is not a positive duration", v))
		return fallback
	}
	return d
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, fmt.Sprintf("%q is not a boolean", v))
		return fallback
	}
	return b
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
