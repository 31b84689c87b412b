package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	HTTP     HTTPConfig    `yaml:"http"`
	Database DBConfig      `yaml:"database"`
	Timezone string        `yaml:"timezone,omitempty"` // IANA name for all day/week bucketing
	Targets  TargetsConfig `yaml:"targets"`
	Backlog  BacklogConfig `yaml:"backlog"`
	Tracker  TrackerConfig `yaml:"tracker"`
	Notify   NotifyConfig  `yaml:"notify"`
	Worker   WorkerConfig  `yaml:"worker"`
	LogLevel string        `yaml:"log_level,omitempty"` // debug, info, warn, error
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// DBConfig contains database configuration
type DBConfig struct {
	Path string `yaml:"path"`
}

// TargetsConfig contains pacing and momentum targets
type TargetsConfig struct {
	DailyMinutes  int `yaml:"daily_minutes"`
	WeeklyMinutes int `yaml:"weekly_minutes"`
	ActiveDays    int `yaml:"active_days"`
}

// BacklogConfig contains backlog aging thresholds
type BacklogConfig struct {
	AgingDays       int `yaml:"aging_days"`        // days before an entry counts as aging
	AutoPromoteDays int `yaml:"auto_promote_days"` // days before the sweep promotes an entry
}

// TrackerConfig contains external task-tracker client configuration
type TrackerConfig struct {
	BaseURL         string `yaml:"base_url,omitempty"`
	Token           string `yaml:"token,omitempty"`
	SyncIntervalSec int    `yaml:"sync_interval,omitempty"`   // seconds
	FieldCacheTTL   int    `yaml:"field_cache_ttl,omitempty"` // seconds
}

// NotifyConfig contains push-notification configuration
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url,omitempty"`
	Milestones []int  `yaml:"milestones,omitempty"` // pacing percent thresholds
}

// WorkerConfig contains background maintenance configuration
type WorkerConfig struct {
	MaintenanceIntervalSec int `yaml:"maintenance_interval,omitempty"` // seconds
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "./momentum.db"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.Targets.DailyMinutes == 0 {
		c.Targets.DailyMinutes = 180
	}
	if c.Targets.WeeklyMinutes == 0 {
		c.Targets.WeeklyMinutes = 900
	}
	if c.Targets.ActiveDays == 0 {
		c.Targets.ActiveDays = 5
	}
	if c.Backlog.AgingDays == 0 {
		c.Backlog.AgingDays = 7
	}
	if c.Backlog.AutoPromoteDays == 0 {
		c.Backlog.AutoPromoteDays = 10
	}
	if c.Tracker.SyncIntervalSec == 0 {
		c.Tracker.SyncIntervalSec = 300
	}
	if c.Tracker.FieldCacheTTL == 0 {
		c.Tracker.FieldCacheTTL = 600
	}
	if len(c.Notify.Milestones) == 0 {
		c.Notify.Milestones = []int{25, 50, 75, 100}
	}
	if c.Worker.MaintenanceIntervalSec == 0 {
		c.Worker.MaintenanceIntervalSec = 900
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ParseLogLevel converts a log level string to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
