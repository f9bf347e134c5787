// Package config loads, validates, and watches the lapwatch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration when --config is not
// given. A missing file is not an error; defaults apply.
const DefaultPath = "lapwatch.yaml"

// Fallback values applied when the file is absent or a field is empty.
const (
	DefaultStorageDir       = "~/.lapwatch"
	DefaultSessionFile      = "session.db"
	DefaultJournalFile      = "journal.db"
	DefaultTickInterval     = 10 * time.Millisecond
	DefaultAutosaveInterval = 5 * time.Second
	DefaultServerAddr       = "127.0.0.1:7600"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Tick     TickConfig     `yaml:"tick"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Server   ServerConfig   `yaml:"server"`
	Journal  JournalConfig  `yaml:"journal"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig locates the on-disk session state.
type StorageConfig struct {
	Dir         string `yaml:"dir"`
	SessionFile string `yaml:"session_file,omitempty"`
	JournalFile string `yaml:"journal_file,omitempty"`
}

// TickConfig controls the clock tick cadence. Interval is a Go duration
// string so the file stays human-editable ("10ms", "25ms").
type TickConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// AutosaveConfig controls the periodic safety save in run mode, on top of
// the save-after-mutation behavior.
type AutosaveConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// ServerConfig controls the control/observability HTTP listener used by run
// mode. Enabled and Metrics are pointers so "absent" defaults to on.
type ServerConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Addr    string `yaml:"addr,omitempty"`
	Metrics *bool  `yaml:"metrics,omitempty"`
}

// JournalConfig controls mutation history recording.
type JournalConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment variables are expanded in the file body, with .env loaded
// first so local overrides work without exporting anything.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	if c.Storage.SessionFile == "" {
		c.Storage.SessionFile = DefaultSessionFile
	}
	if c.Storage.JournalFile == "" {
		c.Storage.JournalFile = DefaultJournalFile
	}
	if c.Tick.Interval == "" {
		c.Tick.Interval = DefaultTickInterval.String()
	}
	if c.Autosave.Interval == "" {
		c.Autosave.Interval = DefaultAutosaveInterval.String()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	c.Logging.Level = string(NormalizeLogLevel(c.Logging.Level))
	c.Logging.Format = string(NormalizeLogFormat(c.Logging.Format))
}

// StorageDir returns the storage directory with a leading ~ expanded.
func (c *Config) StorageDir() string {
	return expandHome(c.Storage.Dir)
}

// SessionPath returns the bbolt session database location.
func (c *Config) SessionPath() string {
	return filepath.Join(c.StorageDir(), c.Storage.SessionFile)
}

// JournalPath returns the sqlite journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.StorageDir(), c.Storage.JournalFile)
}

// TickInterval returns the parsed tick cadence. Validate guarantees the
// string parses; a zero value falls back to the default anyway.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Tick.Interval)
	if err != nil || d <= 0 {
		return DefaultTickInterval
	}
	return d
}

// AutosaveInterval returns the parsed autosave cadence.
func (c *Config) AutosaveInterval() time.Duration {
	d, err := time.ParseDuration(c.Autosave.Interval)
	if err != nil || d <= 0 {
		return DefaultAutosaveInterval
	}
	return d
}

// ServerEnabled reports whether run mode should start the HTTP listener.
func (c *Config) ServerEnabled() bool {
	return c.Server.Enabled == nil || *c.Server.Enabled
}

// MetricsEnabled reports whether the listener should expose /metrics.
func (c *Config) MetricsEnabled() bool {
	return c.Server.Metrics == nil || *c.Server.Metrics
}

// JournalEnabled reports whether mutations are recorded to the journal.
func (c *Config) JournalEnabled() bool {
	return c.Journal.Enabled == nil || *c.Journal.Enabled
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
