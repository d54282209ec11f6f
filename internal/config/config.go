// Package config provides YAML-based configuration loading for Depot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Depot configuration, loaded from config.yaml.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Labels    LabelConfig     `yaml:"labels"`
	Expiry    ExpiryConfig    `yaml:"expiry"`
	Slack     SlackConfig     `yaml:"slack"`
}

// StorageConfig holds the state store connection settings. Driver is
// "sqlite" (Path) or "mysql" (Host/Port/Database).
type StorageConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// DashboardConfig holds the HTTP dashboard settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// LabelConfig holds label geometry and export pacing. Zero values take
// the built-in physical defaults.
type LabelConfig struct {
	OutputDir    string  `yaml:"output_dir"`
	WidthMM      float64 `yaml:"width_mm"`
	HeightMM     float64 `yaml:"height_mm"`
	DPI          int     `yaml:"dpi"`
	Supersample  int     `yaml:"supersample"`
	GroupSize    int     `yaml:"group_size"`
	ImageDelayMS int     `yaml:"image_delay_ms"`
	PDFDelayMS   int     `yaml:"pdf_delay_ms"`
}

// ExpiryConfig holds the storage-expiry sweep settings. Schedule is a
// 5-field cron expression.
type ExpiryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	WarnDays int    `yaml:"warn_days"`
}

// SlackConfig holds notification settings for expiry alerts.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// ImageDelay returns the pause between exported image artifacts.
func (c LabelConfig) ImageDelay() time.Duration {
	return time.Duration(c.ImageDelayMS) * time.Millisecond
}

// PDFDelay returns the pause between PDF pages.
func (c LabelConfig) PDFDelay() time.Duration {
	return time.Duration(c.PDFDelayMS) * time.Millisecond
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "depot.db"
	}
	if c.Storage.Host == "" {
		c.Storage.Host = "127.0.0.1"
	}
	if c.Storage.Port == 0 {
		c.Storage.Port = 3306
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "depot"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Labels.OutputDir == "" {
		c.Labels.OutputDir = "labels"
	}
	if c.Labels.WidthMM == 0 {
		c.Labels.WidthMM = 150
	}
	if c.Labels.HeightMM == 0 {
		c.Labels.HeightMM = 108
	}
	if c.Labels.DPI == 0 {
		c.Labels.DPI = 150
	}
	if c.Labels.Supersample == 0 {
		c.Labels.Supersample = 2
	}
	if c.Labels.GroupSize == 0 {
		c.Labels.GroupSize = 2
	}
	if c.Labels.ImageDelayMS == 0 {
		c.Labels.ImageDelayMS = 1000
	}
	if c.Labels.PDFDelayMS == 0 {
		c.Labels.PDFDelayMS = 250
	}
	if c.Expiry.Schedule == "" {
		c.Expiry.Schedule = "0 7 * * *"
	}
	if c.Expiry.WarnDays == 0 {
		c.Expiry.WarnDays = 7
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Storage.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be sqlite or mysql, got %q", c.Storage.Driver))
	}
	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		errs = append(errs, "dashboard.port must be a valid TCP port")
	}
	if c.Labels.WidthMM <= 0 || c.Labels.HeightMM <= 0 {
		errs = append(errs, "labels dimensions must be positive")
	}
	if c.Labels.DPI < 1 {
		errs = append(errs, "labels.dpi must be positive")
	}
	if c.Labels.GroupSize < 1 {
		errs = append(errs, "labels.group_size must be at least 1")
	}
	if c.Expiry.WarnDays < 1 {
		errs = append(errs, "expiry.warn_days must be at least 1")
	}
	if c.Expiry.Enabled {
		if c.Slack.Token == "" {
			errs = append(errs, "slack.token is required when expiry alerts are enabled")
		}
		if c.Slack.Channel == "" {
			errs = append(errs, "slack.channel is required when expiry alerts are enabled")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
