// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Defaults used when neither the config file nor a flag sets a value.
const (
	DefaultDataDir       = ".classifier"
	DefaultItemsPerPage  = 25
	DefaultTicksPerStage = 20
	DefaultSettleDelayMS = 2000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	DataDir   string `json:"data_dir,omitempty"`   // Directory holding the database and exports
	DBPath    string `json:"db_path,omitempty"`    // SQLite file; defaults to <data_dir>/classifier.db
	ExportDir string `json:"export_dir,omitempty"` // Export target; defaults to <data_dir>/exports

	// Listing
	ItemsPerPage int    `json:"items_per_page,omitempty"` // History page size (10, 25, 50 or 100)
	StrictKeys   bool   `json:"strict_keys,omitempty"`    // Reject unknown filter and sort keys
	Timezone     string `json:"timezone,omitempty"`       // IANA zone for date filters

	// Progress animation
	TicksPerStage int `json:"ticks_per_stage,omitempty"` // Progress events per stage
	SettleDelayMS int `json:"settle_delay_ms,omitempty"` // Hold at 100% before results

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn or error
	LogFormat string `json:"log_format,omitempty"` // text or json
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DataDir:       DefaultDataDir,
		ItemsPerPage:  DefaultItemsPerPage,
		TicksPerStage: DefaultTicksPerStage,
		SettleDelayMS: DefaultSettleDelayMS,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Zero values are accepted since MergeWithDefaults fills them later.
func (c *Config) Validate() error {
	if c.ItemsPerPage != 0 && !slices.Contains([]int{10, 25, 50, 100}, c.ItemsPerPage) {
		return fmt.Errorf("config error: 'items_per_page' must be 10, 25, 50 or 100, got %d", c.ItemsPerPage)
	}
	if c.TicksPerStage < 0 {
		return fmt.Errorf("config error: 'ticks_per_stage' must be non-negative")
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("config error: 'settle_delay_ms' must be non-negative")
	}

	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config error: unknown timezone %q: %w", c.Timezone, err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DBPath == "" {
		result.DBPath = defaults.DBPath
	}
	if result.ExportDir == "" {
		result.ExportDir = defaults.ExportDir
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Int fields: use default if zero
	if result.ItemsPerPage == 0 {
		result.ItemsPerPage = defaults.ItemsPerPage
	}
	if result.TicksPerStage == 0 {
		result.TicksPerStage = defaults.TicksPerStage
	}
	if result.SettleDelayMS == 0 {
		result.SettleDelayMS = defaults.SettleDelayMS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Database returns the SQLite path, derived from the data directory when unset.
func (c *Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "classifier.db")
}

// Exports returns the export directory, derived from the data directory when unset.
func (c *Config) Exports() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return filepath.Join(c.DataDir, "exports")
}

// SettleDelay returns the hold at 100% as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// Location returns the timezone for date filters, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid 'log_level' %q", s)
	}
	return lvl, nil
}
