package config

import (
	"testing"
	"time"
)

func TestLoadUsesFallbacks(t *testing.T) {
	cfg := Load()
	if cfg.APIPort != "8000" {
		t.Fatalf("expected default port 8000, got %s", cfg.APIPort)
	}
	if cfg.DatabaseDSN != "./forms.db" {
		t.Fatalf("expected sqlite fallback DSN, got %s", cfg.DatabaseDSN)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Fatalf("expected 120s provider timeout, got %v", cfg.RequestTimeout)
	}
	if !cfg.EnableImagePreprocessing {
		t.Fatal("expected image preprocessing enabled by default")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("PROVIDER_REQUEST_TIMEOUT", "30s")
	t.Setenv("API_RATE_LIMIT_RPS", "25")
	t.Setenv("ENABLE_IMAGE_PREPROCESSING", "false")

	cfg := Load()
	if cfg.APIPort != "9000" {
		t.Fatalf("expected port 9000, got %s", cfg.APIPort)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.APIRateLimitRPS != 25 {
		t.Fatalf("expected rate limit 25, got %d", cfg.APIRateLimitRPS)
	}
	if cfg.EnableImagePreprocessing {
		t.Fatal("expected preprocessing disabled via environment")
	}
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("PROVIDER_REQUEST_TIMEOUT", "soon")
	t.Setenv("API_RATE_LIMIT_RPS", "many")

	cfg := Load()
	if cfg.RequestTimeout != 120*time.Second {
		t.Fatalf("expected fallback timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.APIRateLimitRPS)
	}
}
