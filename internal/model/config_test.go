package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL == "" || cfg.Identity.BaseURL == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Display.NotifyPollSec != 30 {
		t.Fatalf("expected default poll interval 30, got %d", cfg.Display.NotifyPollSec)
	}
}

func TestLoadConfigReadsFileAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`backend:
  base_url: https://api.local.test
identity:
  api_key: test-key
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.local.test" {
		t.Fatalf("backend url not read: %q", cfg.Backend.BaseURL)
	}
	if cfg.Identity.APIKey != "test-key" {
		t.Fatalf("api key not read: %q", cfg.Identity.APIKey)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Identity.BaseURL == "" || cfg.CachePath == "" {
		t.Fatalf("gaps not filled: %+v", cfg)
	}
}

func TestLoadConfigClampsPollInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`display:
  notify_poll_sec: -5
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Display.NotifyPollSec != 30 {
		t.Fatalf("expected clamped interval 30, got %d", cfg.Display.NotifyPollSec)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Backend.BaseURL = "https://api.saved.test"
	cfg.Display.NotifyPollSec = 60

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Backend.BaseURL != "https://api.saved.test" {
		t.Fatalf("backend url not persisted: %q", loaded.Backend.BaseURL)
	}
	if loaded.Display.NotifyPollSec != 60 {
		t.Fatalf("poll interval not persisted: %d", loaded.Display.NotifyPollSec)
	}
}
