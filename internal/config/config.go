// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultMatchDurationMinutes   = 60
	defaultGenerationHorizonWeeks = 12
	defaultConflictSweepCron      = "0 3 * * *"
)

type DatabaseConfig struct {
	Driver    string `yaml:"driver"`
	Filename  string `yaml:"filename"`
	URL       string `yaml:"url,omitempty"`
	AuthToken string `yaml:"-"` // Loaded from environment
}

// SchedulingConfig tunes the slot reconciliation engine and the schedule
// generator it hands off to.
type SchedulingConfig struct {
	DefaultTimezone           string `yaml:"default_timezone"`
	MatchDurationMinutes      int    `yaml:"match_duration_minutes"`
	GenerationHorizonWeeks    int    `yaml:"generation_horizon_weeks"`
	RejectCrossEventConflicts bool   `yaml:"reject_cross_event_conflicts"`
	ConflictSweepCron         string `yaml:"conflict_sweep_cron"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Features struct {
		EnableMetrics       bool `yaml:"enable_metrics"`
		EnableConflictSweep bool `yaml:"enable_conflict_sweep"`
		EnableDebug         bool `yaml:"enable_debug"`
	} `yaml:"features"`

	Scheduling SchedulingConfig `yaml:"scheduling"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Database.AuthToken = os.Getenv("DATABASE_AUTH_TOKEN")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes a yaml document and fills scheduling defaults. It does not
// validate; Load does that once secrets from the environment are applied.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scheduling.DefaultTimezone == "" {
		c.Scheduling.DefaultTimezone = "UTC"
	}
	if c.Scheduling.MatchDurationMinutes == 0 {
		c.Scheduling.MatchDurationMinutes = defaultMatchDurationMinutes
	}
	if c.Scheduling.GenerationHorizonWeeks == 0 {
		c.Scheduling.GenerationHorizonWeeks = defaultGenerationHorizonWeeks
	}
	if c.Scheduling.ConflictSweepCron == "" {
		c.Scheduling.ConflictSweepCron = defaultConflictSweepCron
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "turso":
		if c.Database.URL == "" {
			return fmt.Errorf("database URL is required for turso")
		}
		if c.Database.AuthToken == "" {
			return fmt.Errorf("database auth token is required for turso")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return c.Scheduling.Validate()
}

func (s SchedulingConfig) Validate() error {
	if _, err := time.LoadLocation(s.DefaultTimezone); err != nil {
		return fmt.Errorf("scheduling default_timezone %q: %w", s.DefaultTimezone, err)
	}
	if s.MatchDurationMinutes <= 0 || s.MatchDurationMinutes > 24*60 {
		return fmt.Errorf("scheduling match_duration_minutes must be between 1 and 1440")
	}
	if s.GenerationHorizonWeeks <= 0 {
		return fmt.Errorf("scheduling generation_horizon_weeks must be greater than 0")
	}
	if _, err := cron.ParseStandard(s.ConflictSweepCron); err != nil {
		return fmt.Errorf("scheduling conflict_sweep_cron %q: %w", s.ConflictSweepCron, err)
	}
	return nil
}

// MatchDuration returns the configured match length.
func (s SchedulingConfig) MatchDuration() time.Duration {
	return time.Duration(s.MatchDurationMinutes) * time.Minute
}

// Location resolves DefaultTimezone, falling back to UTC.
func (s SchedulingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
