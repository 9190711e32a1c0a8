// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Poll      PollConfig      `yaml:"poll"`
	Inspector InspectorConfig `yaml:"inspector"`
	Page      PageConfig      `yaml:"page"`
	Watch     WatchConfig     `yaml:"watch"`
	Log       LogConfig       `yaml:"log"`
	Messages  MessagesConfig  `yaml:"messages"`
}

// PollConfig represents readiness polling configuration.
type PollConfig struct {
	IntervalMs  int `yaml:"interval_ms" default:"1000" validate:"gte=10,lte=60000"`
	MaxAttempts int `yaml:"max_attempts" default:"60" validate:"gte=1,lte=3600"`
}

// InspectorConfig represents item inspection configuration.
type InspectorConfig struct {
	// UnavailableMarkers replaces the built-in list of unavailable video titles.
	UnavailableMarkers []string `yaml:"unavailable_markers" validate:"dive,required"`
}

// PageConfig represents the HTML snapshot host configuration.
// Settings is decoded by the page package, which owns the selector schema.
type PageConfig struct {
	Settings map[string]any `yaml:"settings"`
}

// WatchConfig represents snapshot file watching configuration.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" default:"200" validate:"gte=0,lte=10000"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stderr"`
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Computing     string `yaml:"computing" default:"Calculating..."`
	TotalDuration string `yaml:"total_duration" default:"Total duration:"`
	Counted       string `yaml:"counted" default:"Videos counted:"`
	NotCounted    string `yaml:"not_counted" default:"Videos not counted:"`
	ScrollHint    string `yaml:"scroll_hint" default:"Scroll down to count more videos"`
	RangeDuration string `yaml:"range_duration" default:"Range duration:"`
	InvalidRange  string `yaml:"invalid_range" default:"Please enter proper numbers!"`
	Unavailable   string `yaml:"unavailable" default:"N/A"`
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// Load loads configuration from a YAML file.
// An empty path returns the defaults.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YTPDC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("YTPDC_LOG_OUTPUT"); v != "" {
		c.Log.Output = v
	}
	if v := os.Getenv("YTPDC_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Poll.IntervalMs = n
		}
	}
	if v := os.Getenv("YTPDC_POLL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Poll.MaxAttempts = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// PollInterval returns the delay between readiness ticks.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMs) * time.Millisecond
}

// WatchDebounce returns the snapshot watcher debounce delay.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// PollTimeout returns the longest time a generation can stay in polling.
func (c *Config) PollTimeout() time.Duration {
	return c.PollInterval() * time.Duration(c.Poll.MaxAttempts)
}
