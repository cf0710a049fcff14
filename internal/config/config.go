// Package config provides unified configuration loading for demodash.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kaleidemoskop/demodash/internal/constants"
	"github.com/kaleidemoskop/demodash/internal/dataset"
	"github.com/kaleidemoskop/demodash/internal/pathutil"
)

// DashboardConfig contains all demodash configuration settings.
type DashboardConfig struct {
	// Data selects where the tables are loaded from.
	Data DataConfig `json:"data" yaml:"data"`

	// Server configures the HTTP dashboard.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains settings for operational and transition logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	// Dir holds the CSV tables and the metadata JSON.
	Dir string `json:"dir" yaml:"dir" env:"DEMODASH_DATA_DIR"`

	// Source is "csv" (default) or "sqlite".
	Source string `json:"source" yaml:"source" env:"DEMODASH_DATA_SOURCE"`

	// SQLitePath is the database written by `demodash import`. Relative
	// paths are resolved against Dir.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path" env:"DEMODASH_SQLITE_PATH"`

	// Files overrides individual file names inside Dir.
	Files dataset.Files `json:"files" yaml:"files"`
}

// ServerConfig configures `demodash serve`.
type ServerConfig struct {
	// Addr is the listen address. Empty picks a free localhost port.
	Addr string `json:"addr" yaml:"addr" env:"DEMODASH_ADDR"`

	// TickInterval is the auto-advance period while playing.
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval" env:"DEMODASH_TICK_INTERVAL"`

	// OpenBrowser opens the dashboard in the default browser on start.
	OpenBrowser bool `json:"open_browser" yaml:"open_browser" env:"DEMODASH_OPEN_BROWSER"`

	// EventRate and EventBurst bound POST /api/events per second.
	EventRate  float64 `json:"event_rate" yaml:"event_rate" env:"DEMODASH_EVENT_RATE"`
	EventBurst int     `json:"event_burst" yaml:"event_burst" env:"DEMODASH_EVENT_BURST"`
}

// LoggingConfig configures demodash's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables transition logging to <dir>/transitions.jsonl.
	Level string `json:"level" yaml:"level" env:"DEMODASH_LOG_LEVEL"`

	// Dir receives transitions.jsonl. Defaults to ~/.demodash.
	Dir string `json:"dir" yaml:"dir" env:"DEMODASH_LOG_DIR"`
}

// Default returns a DashboardConfig with sensible defaults.
func Default() *DashboardConfig {
	return &DashboardConfig{
		Data: DataConfig{
			Dir:        "data",
			Source:     dataset.BackendCSV,
			SQLitePath: "demodash.db",
			Files:      dataset.DefaultFiles(),
		},
		Server: ServerConfig{
			Addr:         "",
			TickInterval: constants.DefaultTickInterval,
			OpenBrowser:  true,
			EventRate:    20,
			EventBurst:   40,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns ~/.demodash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".demodash"), nil
}

// DefaultPath returns ~/.demodash/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.demodash/config.yaml -> environment variables
func Load() (*DashboardConfig, error) {
	path, err := DefaultPath()
	if err != nil {
		path = ""
	}
	return LoadPath(path)
}

// LoadPath is Load with an explicit config file. A missing file is not an error.
func LoadPath(path string) (*DashboardConfig, error) {
	config := Default()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			fileConfig, loadErr := LoadFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*DashboardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Data.Dir = pathutil.ExpandPath(config.Data.Dir)
	config.Data.SQLitePath = pathutil.ExpandPath(config.Data.SQLitePath)
	config.Logging.Dir = pathutil.ExpandPath(config.Logging.Dir)

	return config, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *DashboardConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *DashboardConfig) Validate() error {
	switch c.Data.Source {
	case "", dataset.BackendCSV, dataset.BackendSQLite:
	default:
		return fmt.Errorf("invalid data source: %s (valid: csv, sqlite)", c.Data.Source)
	}

	if c.Data.Source == dataset.BackendSQLite && c.Data.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required when source is sqlite")
	}

	if c.Server.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.Server.TickInterval)
	}

	if c.Server.EventRate < 0 || c.Server.EventBurst < 0 {
		return fmt.Errorf("event_rate and event_burst must be non-negative")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// OpenOptions maps the data section onto dataset.Open.
func (c *DashboardConfig) OpenOptions() dataset.OpenOptions {
	dbPath := c.Data.SQLitePath
	if dbPath != "" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(c.Data.Dir, dbPath)
	}
	return dataset.OpenOptions{
		Backend: c.Data.Source,
		Dir:     c.Data.Dir,
		Files:   c.Data.Files,
		DBPath:  dbPath,
	}
}

// Get retrieves a configuration value by dot-notation key.
func (c *DashboardConfig) Get(key string) (any, bool) {
	switch key {
	case "data.dir":
		return c.Data.Dir, true
	case "data.source":
		return c.Data.Source, true
	case "data.sqlite_path":
		return c.Data.SQLitePath, true
	case "server.addr":
		return c.Server.Addr, true
	case "server.tick_interval":
		return c.Server.TickInterval.String(), true
	case "server.open_browser":
		return c.Server.OpenBrowser, true
	case "server.event_rate":
		return c.Server.EventRate, true
	case "server.event_burst":
		return c.Server.EventBurst, true
	case "logging.level":
		return c.Logging.Level, true
	case "logging.dir":
		return c.Logging.Dir, true
	default:
		return nil, false
	}
}

// Keys lists every key accepted by Get and Set, in display order.
var Keys = []string{
	"data.dir",
	"data.source",
	"data.sqlite_path",
	"server.addr",
	"server.tick_interval",
	"server.open_browser",
	"server.event_rate",
	"server.event_burst",
	"logging.level",
	"logging.dir",
}

// Set assigns a configuration value by dot-notation key.
func (c *DashboardConfig) Set(key, value string) error {
	switch key {
	case "data.dir":
		c.Data.Dir = value
	case "data.source":
		if value != dataset.BackendCSV && value != dataset.BackendSQLite {
			return fmt.Errorf("invalid data source: %s (valid: csv, sqlite)", value)
		}
		c.Data.Source = value
	case "data.sqlite_path":
		c.Data.SQLitePath = value
	case "server.addr":
		c.Server.Addr = value
	case "server.tick_interval":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration: %s", value)
		}
		c.Server.TickInterval = d
	case "server.open_browser":
		c.Server.OpenBrowser = value == "true" || value == "1"
	case "server.event_rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid event rate: %s", value)
		}
		c.Server.EventRate = f
	case "server.event_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid event burst: %s", value)
		}
		c.Server.EventBurst = n
	case "logging.level":
		c.Logging.Level = value
	case "logging.dir":
		c.Logging.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// applyEnvOverrides applies DEMODASH_* environment variables on top of the
// loaded values. Unset variables leave fields untouched.
func applyEnvOverrides(config *DashboardConfig) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
