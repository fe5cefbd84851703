package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("API_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Session.Backend != SessionBackendBolt {
		t.Errorf("Backend = %q", cfg.Session.Backend)
	}
	if cfg.Session.Path == "" {
		t.Error("expected a default session path")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.org/")
	t.Setenv("API_TIMEOUT", "3")
	t.Setenv("API_READ_RETRIES", "4")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("WATCH_INTERVAL", "1m")
	t.Setenv("STUB_PORT", "5050")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.org" {
		t.Errorf("trailing slash not trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if cfg.API.ReadRetries != 4 || cfg.API.RateLimit != 2.5 {
		t.Errorf("unexpected API config %+v", cfg.API)
	}
	if cfg.Session.Backend != SessionBackendRedis {
		t.Errorf("Backend = %q", cfg.Session.Backend)
	}
	if cfg.Watch.Interval != time.Minute {
		t.Errorf("Interval = %v", cfg.Watch.Interval)
	}
	if cfg.StubAddress() != "127.0.0.1:5050" {
		t.Errorf("StubAddress = %q", cfg.StubAddress())
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"relative url":    {"API_BASE_URL": "localhost:5000"},
		"unknown backend": {"SESSION_BACKEND": "sqlite"},
		"zero timeout":    {"API_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
