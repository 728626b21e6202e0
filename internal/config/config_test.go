package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMinimalConfig(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: https://api.example.com/v1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("unexpected apiBaseURL: %q", cfg.APIBaseURL)
	}
}

func TestLoadRequiresAPIBaseURL(t *testing.T) {
	path := writeConfig(t, "logLevel: debug\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing apiBaseURL")
	}
}

func TestLoadValidatesStoreBackendRequirements(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"file store without stateDir", "apiBaseURL: https://api.example.com\nsessionStore: file\n"},
		{"redis store without addr", "apiBaseURL: https://api.example.com\nsessionStore: redis\n"},
		{"postgres store without dsn", "apiBaseURL: https://api.example.com\nsessionStore: postgres\n"},
		{"unknown store", "apiBaseURL: https://api.example.com\nsessionStore: etcd\n"},
		{"minio without bucket", "apiBaseURL: https://api.example.com\nminioEndpoint: localhost:9000\nminioBucket: \"\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "apiBaseURL: https://api.example.com\nsessionStore: memory\n")
	t.Setenv("SHOPFRONT_API_BASE_URL", "https://staging.example.com")
	t.Setenv("SHOPFRONT_SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://staging.example.com" {
		t.Fatalf("expected env override for apiBaseURL, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionStore != "redis" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected env overrides for session store, got %q / %q", cfg.SessionStore, cfg.RedisAddr)
	}
}

func TestParseRequestTimeout(t *testing.T) {
	if d, err := ParseRequestTimeout(""); err != nil || d != 0 {
		t.Fatalf("empty timeout should parse to zero, got %v err=%v", d, err)
	}
	if d, err := ParseRequestTimeout("15s"); err != nil || d != 15*time.Second {
		t.Fatalf("expected 15s, got %v err=%v", d, err)
	}
	if _, err := ParseRequestTimeout("soon"); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
