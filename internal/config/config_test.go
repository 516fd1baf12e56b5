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
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
mongodb:
  url: mongodb://localhost:27017
  database: hoyo_events
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scraper.IntervalMinutes != 10 {
		t.Errorf("interval = %d, expected default 10", cfg.Scraper.IntervalMinutes)
	}
	if cfg.Scraper.Timeout() != 15*time.Second {
		t.Errorf("scraper timeout = %v, expected default 15s", cfg.Scraper.Timeout())
	}
	if cfg.MongoDB.Timeout() != 5*time.Second {
		t.Errorf("mongodb timeout = %v, expected default 5s", cfg.MongoDB.Timeout())
	}
	if cfg.Metrics.ListenAddress != "" {
		t.Errorf("metrics address = %q, expected disabled by default", cfg.Metrics.ListenAddress)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
mongodb:
  url: mongodb://db:27017
  database: events
  timeout_seconds: 3
scraper:
  interval_minutes: 30
  timeout_seconds: 20
metrics:
  listen_address: ":9464"
notifier:
  discord_webhook_url: https://discord.com/api/webhooks/1/abc
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MongoDB.URL != "mongodb://db:27017" || cfg.MongoDB.Database != "events" {
		t.Errorf("unexpected mongodb config: %+v", cfg.MongoDB)
	}
	if cfg.Scraper.Interval() != 30*time.Minute {
		t.Errorf("interval = %v, expected 30m", cfg.Scraper.Interval())
	}
	if cfg.Metrics.ListenAddress != ":9464" {
		t.Errorf("metrics address = %q", cfg.Metrics.ListenAddress)
	}
	if cfg.Notifier.DiscordWebhookURL == "" {
		t.Error("expected webhook URL to be set")
	}
}

func TestLoadMissingMongoDB(t *testing.T) {
	path := writeConfig(t, `
scraper:
  interval_minutes: 10
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing mongodb settings")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
