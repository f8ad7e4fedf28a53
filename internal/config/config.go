// Package config manages Fieldnote licensing configuration from the environment.
//
// Configuration sources, in order of precedence:
//   - process environment variables
//   - .env in the data directory (deployment overrides)
//   - .env in the current directory (development)
//   - built-in defaults
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment selects which licensing server the instance talks to.
const (
	EnvProduction = "production"
	EnvStaging    = "staging"
)

// Default policy values. All are overridable via environment variables.
const (
	DefaultRevalidationInterval = 24 * time.Hour
	DefaultGracePeriod          = 3 * 24 * time.Hour
	DefaultFetchTimeout         = 10 * time.Second
	DefaultFetchLockTTL         = 30 * time.Second
	DefaultRedisURL             = "redis://localhost:6379"
	DefaultDataDir              = "/var/lib/fieldnote"
)

// Config holds all settings for the entitlement verification engine.
type Config struct {
	// LicenseKey is the enterprise license secret. Empty means no license is
	// configured and every entitlement check resolves to the no-license state.
	LicenseKey string

	// Environment selects the licensing server host ("production" or "staging").
	Environment string

	// RevalidationInterval is how long a confirmed license status is cached
	// before the next remote check (the status key TTL).
	RevalidationInterval time.Duration

	// GracePeriod is the maximum age of a previously confirmed result that is
	// still honored after a verification failure.
	GracePeriod time.Duration

	// FetchTimeout bounds a single remote verification call.
	FetchTimeout time.Duration

	// FetchLockTTL bounds how long a crashed fetch holder can block peers.
	FetchLockTTL time.Duration

	// RedisURL is the cache store connection string.
	RedisURL string

	// DataDir is where the instance identity file is persisted.
	DataDir string

	// Logging settings.
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment with built-in defaults.
func Load() *Config {
	dataDir := DefaultDataDir
	if dir := os.Getenv("FIELDNOTE_DATA_DIR"); dir != "" {
		dataDir = dir
	}

	// Load .env file if it exists (for deployment overrides)
	envFile := filepath.Join(dataDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			log.Warn().Err(err).Str("file", envFile).Msg("Failed to load .env file")
		}
	}

	// Also try loading from current directory for development
	_ = godotenv.Load()

	cfg := &Config{
		Environment:          EnvProduction,
		RevalidationInterval: DefaultRevalidationInterval,
		GracePeriod:          DefaultGracePeriod,
		FetchTimeout:         DefaultFetchTimeout,
		FetchLockTTL:         DefaultFetchLockTTL,
		RedisURL:             DefaultRedisURL,
		DataDir:              dataDir,
		LogLevel:             "info",
		LogFormat:            "auto",
	}

	cfg.LicenseKey = strings.TrimSpace(os.Getenv("ENTERPRISE_LICENSE_KEY"))

	if env := strings.ToLower(strings.TrimSpace(os.Getenv("FIELDNOTE_ENV"))); env != "" {
		switch env {
		case EnvProduction, EnvStaging:
			cfg.Environment = env
		default:
			log.Warn().Str("env", env).Msg("Unknown FIELDNOTE_ENV; using production")
		}
	}

	cfg.RevalidationInterval = envDuration("LICENSE_REVALIDATION_INTERVAL", cfg.RevalidationInterval)
	cfg.GracePeriod = envDuration("LICENSE_GRACE_PERIOD", cfg.GracePeriod)
	cfg.FetchTimeout = envDuration("LICENSE_FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchLockTTL = envDuration("LICENSE_FETCH_LOCK_TTL", cfg.FetchLockTTL)

	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	return cfg
}

// HasLicenseKey reports whether an enterprise license key is configured.
// This is a static check; it never touches the cache or the network.
func (c *Config) HasLicenseKey() bool {
	return c != nil && c.LicenseKey != ""
}

// envDuration reads a duration env var, accepting either a Go duration string
// ("30s", "72h") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil && d > 0 {
		return d
	}
	log.Warn().Str("key", key).Str("value", raw).Dur("fallback", fallback).
		Msg("Invalid duration env var; using fallback")
	return fallback
}
