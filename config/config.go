// Package config loads and validates the process configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete resolver configuration
type Config struct {
	Database      DatabaseConfig    `json:"database" yaml:"database"`
	Batch         BatchConfig       `json:"batch" yaml:"batch"`
	Session       SessionConfig     `json:"session" yaml:"session"`
	Methodologies MethodologyConfig `json:"methodologies" yaml:"methodologies"`
	Log           LogConfig         `json:"log" yaml:"log"`
}

// DatabaseConfig locates the SQLite database
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// BatchConfig bounds the batch driver
type BatchConfig struct {
	Workers    int `json:"workers" yaml:"workers"`
	Resolution int `json:"resolution" yaml:"resolution"` // bar resolution in minutes
}

// SessionConfig defines the trading session boundary
type SessionConfig struct {
	Timezone string `json:"timezone" yaml:"timezone"`
	Cutoff   string `json:"cutoff" yaml:"cutoff"` // HH:MM wall clock in Timezone
}

// MethodologyConfig selects and parameterizes the stop methodologies
type MethodologyConfig struct {
	Primary          string   `json:"primary" yaml:"primary"`
	Fallback         string   `json:"fallback" yaml:"fallback"`
	Descriptive      []string `json:"descriptive,omitempty" yaml:"descriptive,omitempty"`
	ATRStopMultiple  float64  `json:"atr_stop_multiple" yaml:"atr_stop_multiple"`
	ZoneBufferPct    float64  `json:"zone_buffer_pct" yaml:"zone_buffer_pct"`
	SessionATRWindow int      `json:"session_atr_window" yaml:"session_atr_window"`
}

// LogConfig controls log output
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content). A .env file alongside the process, if present, is loaded
// first so the config file can be pointed at via OUTCOMES_CONFIG.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("OUTCOMES_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Batch.Resolution <= 0 {
		return fmt.Errorf("batch.resolution must be positive")
	}
	if c.Session.Timezone == "" {
		return fmt.Errorf("session.timezone is required")
	}
	if c.Session.Cutoff == "" {
		return fmt.Errorf("session.cutoff is required")
	}
	if c.Methodologies.Primary == "" {
		return fmt.Errorf("methodologies.primary is required")
	}
	if c.Methodologies.Fallback == "" {
		return fmt.Errorf("methodologies.fallback is required")
	}
	if c.Methodologies.Primary == c.Methodologies.Fallback {
		return fmt.Errorf("methodologies.primary and methodologies.fallback must differ")
	}
	if c.Methodologies.ATRStopMultiple <= 0 {
		return fmt.Errorf("methodologies.atr_stop_multiple must be positive")
	}
	if c.Methodologies.ZoneBufferPct <= 0 {
		return fmt.Errorf("methodologies.zone_buffer_pct must be positive")
	}
	if c.Methodologies.SessionATRWindow <= 0 {
		return fmt.Errorf("methodologies.session_atr_window must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./outcomes.db",
		},
		Batch: BatchConfig{
			Workers:    4,
			Resolution: 1,
		},
		Session: SessionConfig{
			Timezone: "America/New_York",
			Cutoff:   "15:30",
		},
		Methodologies: MethodologyConfig{
			Primary:          "atr",
			Fallback:         "zone_buffer",
			Descriptive:      []string{"prior_bar", "session_atr"},
			ATRStopMultiple:  1.0,
			ZoneBufferPct:    0.05,
			SessionATRWindow: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
