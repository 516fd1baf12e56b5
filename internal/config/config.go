// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notifier NotifierConfig `yaml:"notifier"`
}

type MongoDBConfig struct {
	URL            string `yaml:"url"`
	Database       string `yaml:"database"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ScraperConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
}

type MetricsConfig struct {
	// ListenAddress for the Prometheus endpoint; empty disables it.
	ListenAddress string `yaml:"listen_address"`
}

type NotifierConfig struct {
	// DiscordWebhookURL enables announcements of newly catalogued
	// events; empty disables them.
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
}

// Timeout returns the per-operation MongoDB timeout.
func (c MongoDBConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Interval returns the cycle interval.
func (c ScraperConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Timeout returns the per-request fetch timeout.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads and validates the config file, filling in defaults for
// optional fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MongoDB.URL == "" || cfg.MongoDB.Database == "" {
		return nil, fmt.Errorf("mongodb.url and mongodb.database must be set")
	}
	if cfg.Scraper.IntervalMinutes == 0 {
		cfg.Scraper.IntervalMinutes = 10
	}
	if cfg.Scraper.TimeoutSeconds == 0 {
		cfg.Scraper.TimeoutSeconds = 15
	}
	if cfg.MongoDB.TimeoutSeconds == 0 {
		cfg.MongoDB.TimeoutSeconds = 5
	}

	return &cfg, nil
}
