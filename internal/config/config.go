// Package config provides configuration management for shardkey.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shardkey/shardkey/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Split    SplitConfig    `yaml:"split"`
	Store    StoreConfig    `yaml:"store"`
	Security SecurityConfig `yaml:"security"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Warnings collects non-fatal problems found while loading; surfaced
	// once by the CLI, never persisted.
	Warnings []string `yaml:"-"`
}

// SplitConfig defines defaults for dealing shares.
type SplitConfig struct {
	DefaultThreshold int    `yaml:"default_threshold"`
	DefaultShares    int    `yaml:"default_shares"`
	DefaultFormat    string `yaml:"default_format"`
}

// StoreConfig defines the metadata store settings.
type StoreConfig struct {
	Path    string `yaml:"path"`
	Encrypt bool   `yaml:"encrypt"`
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock    bool `yaml:"memory_lock"`
	AuthPerMinute int  `yaml:"auth_per_minute"`
	AuthBurst     int  `yaml:"auth_burst"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, layered over defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the specified file atomically.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default shardkey home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shardkey"
	}
	return filepath.Join(home, ".shardkey")
}

// StorePath resolves the store directory, defaulting under home.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	return filepath.Join(expandHome(c.Home), "store")
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose reports whether verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
