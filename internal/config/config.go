package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Report   ReportConfig   `yaml:"report"`
	Database DatabaseConfig `yaml:"database"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
}

// DataConfig locates the day-partitioned snapshot files.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// ReportConfig controls the weekly aggregation run.
type ReportConfig struct {
	// OutputDir receives slack_{src}.txt, weekly_summary_{src}.json and
	// the combined HTML report.
	OutputDir string `yaml:"output_dir"`
	// MinDays is the stability gate for Top-10 inclusion.
	MinDays int `yaml:"min_days"`
	// Sources restricts the run to a subset; empty means all.
	Sources []string `yaml:"sources"`
	// IngredientsPath points at an external ingredient word list.
	IngredientsPath string `yaml:"ingredients_path"`
}

// DatabaseConfig configures the SQLite summary archive.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AlertsConfig configures digest delivery.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack incoming-webhook delivery.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook delivery of the structured record.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{Dir: "./data/daily"},
		Report: ReportConfig{
			OutputDir: "./dist",
			MinDays:   3,
		},
		Database: DatabaseConfig{Path: "./rankweekly.db"},
		Server:   ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	if cfg.Report.MinDays <= 0 {
		cfg.Report.MinDays = 3
	}
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RANKWEEKLY_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("RANKWEEKLY_OUTPUT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("RANKWEEKLY_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("RANKWEEKLY_MIN_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Report.MinDays = n
		}
	}
	if v := os.Getenv("RANKWEEKLY_INGREDIENTS"); v != "" {
		cfg.Report.IngredientsPath = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
}
