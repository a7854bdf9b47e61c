package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "https://www.earningswhispers.com/calendar" {
		t.Errorf("Unexpected default base_url: %s", cfg.BaseURL)
	}
	if cfg.Fetcher != "DYNAMIC" {
		t.Errorf("Expected default fetcher DYNAMIC, got %s", cfg.Fetcher)
	}
	if !cfg.Headless() {
		t.Error("Expected headless by default")
	}
	if cfg.WaitTimeout() != 30*time.Second {
		t.Errorf("Expected 30s wait timeout, got %v", cfg.WaitTimeout())
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Errorf("Expected 500ms poll interval, got %v", cfg.PollInterval())
	}
	if len(cfg.Schedule.Times) != 2 {
		t.Errorf("Expected two default trigger times, got %v", cfg.Schedule.Times)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
base_url: https://example.test/calendar
fetcher: STATIC
output_dir: out
browser:
  visible: true
  wait_seconds: 5
schedule:
  times: ["07:15", "18:45"]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BaseURL != "https://example.test/calendar" {
		t.Errorf("base_url not applied: %s", cfg.BaseURL)
	}
	if cfg.Fetcher != "STATIC" {
		t.Errorf("fetcher not applied: %s", cfg.Fetcher)
	}
	if cfg.Headless() {
		t.Error("visible: true should disable headless")
	}
	if cfg.WaitTimeout() != 5*time.Second {
		t.Errorf("wait_seconds not applied: %v", cfg.WaitTimeout())
	}
	// Unset fields keep defaults.
	if cfg.Browser.PollMillis != 500 {
		t.Errorf("Expected default poll_millis, got %d", cfg.Browser.PollMillis)
	}
	if cfg.Schedule.Times[1] != "18:45" {
		t.Errorf("schedule times not applied: %v", cfg.Schedule.Times)
	}
}

func TestLoadConfigInvalidFetcher(t *testing.T) {
	path := writeConfig(t, "fetcher: BROWSER\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for bad fetcher")
	}
	if !strings.Contains(err.Error(), "invalid fetcher") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfigInvalidScheduleTime(t *testing.T) {
	path := writeConfig(t, "schedule:\n  times: [\"6am\"]\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for bad schedule time")
	}
	if !strings.Contains(err.Error(), "invalid schedule time") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
