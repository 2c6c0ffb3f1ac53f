package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration. The game constants (epoch length,
// boost cost, score weights) live in pkg/engine and are not
// configurable.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Shorts   ShortsConfig   `yaml:"shorts"`
	News     NewsConfig     `yaml:"news"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// DatabaseConfig configures the SQLite history archive. An empty path
// disables archiving.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ShortsConfig configures the daily shorts harvest.
type ShortsConfig struct {
	Pages []string `yaml:"pages"`
}

// NewsConfig configures the trending-headlines ingest.
type NewsConfig struct {
	Feeds           []FeedItem `yaml:"feeds"`
	ExcludeKeywords []string   `yaml:"exclude_keywords"`
}

// FeedItem is a single RSS feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// AlertsConfig configures daily-winner announcement destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook announcements.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook announcements.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook announcements.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./vsradar.db"},
		Server:   ServerConfig{Port: 8080},
		News: NewsConfig{
			Feeds: []FeedItem{
				{Name: "Google News", URL: "https://news.google.com/rss"},
				{Name: "BBC", URL: "https://feeds.bbci.co.uk/news/rss.xml"},
				{Name: "Reuters", URL: "https://feeds.reuters.com/reuters/topNews"},
				{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
			},
		},
		Alerts: AlertsConfig{},
	}
}

// Load reads configuration from a YAML file and applies env var
// overrides.
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
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VSRADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("VSRADAR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
