package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://trace.example.org"
	cfg.Session.Persist = true

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.API.BaseURL != "https://trace.example.org" {
		t.Errorf("API.BaseURL: got %q, want %q", loaded.API.BaseURL, "https://trace.example.org")
	}
	if !loaded.Session.Persist {
		t.Error("Session.Persist: got false, want true")
	}
}

func TestDefaultConfigIsEphemeral(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Session.Persist {
		t.Error("default Session.Persist should be false")
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("default API.BaseURL: got %q", cfg.API.BaseURL)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `api:
  base_url: "http://10.0.0.5:8000/"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	// Trailing slash is trimmed so paths can be joined verbatim.
	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("API.BaseURL: got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("API.TimeoutSeconds: got %d, want 30", cfg.API.TimeoutSeconds)
	}
	if cfg.UI.DateFormat == "" {
		t.Error("UI.DateFormat should keep its default")
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestReadConfigMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("api: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := ReadConfig(tmpDir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{30, 30 * time.Second},
		{0, 0},
		{-5, 0},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.API.TimeoutSeconds = tt.seconds
		if got := cfg.Timeout(); got != tt.want {
			t.Errorf("Timeout() with %d seconds = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestNotificationTTL(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{10, 10 * time.Second},
		{0, 4 * time.Second},
		{-1, 4 * time.Second},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.UI.NotificationSeconds = tt.seconds
		if got := cfg.NotificationTTL(); got != tt.want {
			t.Errorf("NotificationTTL() with %d seconds = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestDBPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DBPath("/home/u/.trace"); got != filepath.Join("/home/u/.trace", "sessions.db") {
		t.Errorf("relative DBPath = %q", got)
	}

	cfg.Session.DBFile = "/var/lib/trace/s.db"
	if got := cfg.DBPath("/home/u/.trace"); got != "/var/lib/trace/s.db" {
		t.Errorf("absolute DBPath = %q", got)
	}
}
