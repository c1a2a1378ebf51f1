package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RenderTimeout != 45*time.Second {
		t.Fatalf("RenderTimeout = %v, want 45s", cfg.RenderTimeout)
	}
	if cfg.FailureThreshold != 2 {
		t.Fatalf("FailureThreshold = %d, want 2", cfg.FailureThreshold)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("RENDER_TIMEOUT", "1m30s")
	t.Setenv("FAILURE_THRESHOLD", "5")
	t.Setenv("HEADLESS_OFF", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9999" {
		t.Fatalf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.RenderTimeout != 90*time.Second {
		t.Fatalf("RenderTimeout = %v, want 1m30s", cfg.RenderTimeout)
	}
	if cfg.FailureThreshold != 5 {
		t.Fatalf("FailureThreshold = %d, want 5", cfg.FailureThreshold)
	}
	if !cfg.HeadlessOff {
		t.Fatalf("HeadlessOff = false, want true")
	}
}

func TestLoad_RejectsMalformedDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() error = nil, want parse failure")
	}
}
