package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIELDNOTE_DATA_DIR", t.TempDir())
	t.Setenv("ENTERPRISE_LICENSE_KEY", "")
	t.Setenv("FIELDNOTE_ENV", "")
	t.Setenv("LICENSE_REVALIDATION_INTERVAL", "")
	t.Setenv("LICENSE_GRACE_PERIOD", "")

	cfg := Load()

	if cfg.HasLicenseKey() {
		t.Error("expected no license key by default")
	}
	if cfg.Environment != EnvProduction {
		t.Errorf("environment = %q, want %q", cfg.Environment, EnvProduction)
	}
	if cfg.RevalidationInterval != DefaultRevalidationInterval {
		t.Errorf("revalidation interval = %v, want %v", cfg.RevalidationInterval, DefaultRevalidationInterval)
	}
	if cfg.GracePeriod != DefaultGracePeriod {
		t.Errorf("grace period = %v, want %v", cfg.GracePeriod, DefaultGracePeriod)
	}
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("fetch timeout = %v, want %v", cfg.FetchTimeout, DefaultFetchTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FIELDNOTE_DATA_DIR", t.TempDir())
	t.Setenv("ENTERPRISE_LICENSE_KEY", "  fn_ent_abc123  ")
	t.Setenv("FIELDNOTE_ENV", "staging")
	t.Setenv("LICENSE_REVALIDATION_INTERVAL", "1h")
	t.Setenv("LICENSE_GRACE_PERIOD", "86400") // bare seconds
	t.Setenv("REDIS_URL", "redis://cache:6380/2")

	cfg := Load()

	if !cfg.HasLicenseKey() {
		t.Fatal("expected license key to be configured")
	}
	if cfg.LicenseKey != "fn_ent_abc123" {
		t.Errorf("license key = %q, want trimmed value", cfg.LicenseKey)
	}
	if cfg.Environment != EnvStaging {
		t.Errorf("environment = %q, want %q", cfg.Environment, EnvStaging)
	}
	if cfg.RevalidationInterval != time.Hour {
		t.Errorf("revalidation interval = %v, want 1h", cfg.RevalidationInterval)
	}
	if cfg.GracePeriod != 24*time.Hour {
		t.Errorf("grace period = %v, want 24h", cfg.GracePeriod)
	}
	if cfg.RedisURL != "redis://cache:6380/2" {
		t.Errorf("redis url = %q", cfg.RedisURL)
	}
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("FIELDNOTE_DATA_DIR", t.TempDir())
	t.Setenv("FIELDNOTE_ENV", "qa")

	cfg := Load()
	if cfg.Environment != EnvProduction {
		t.Errorf("environment = %q, want fallback to production", cfg.Environment)
	}
}

func TestEnvDurationInvalidFallsBack(t *testing.T) {
	t.Setenv("LICENSE_FETCH_TIMEOUT", "not-a-duration")

	if got := envDuration("LICENSE_FETCH_TIMEOUT", 5*time.Second); got != 5*time.Second {
		t.Errorf("envDuration = %v, want fallback 5s", got)
	}
}
