// Package config handles reading and writing ~/.trace/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	UI      UIConfig      `yaml:"ui"`
}

// APIConfig points the client at the analysis backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 disables the bound
}

// SessionConfig controls whether the bearer credential outlives the process.
type SessionConfig struct {
	Persist       bool   `yaml:"persist"`
	DBFile        string `yaml:"db_file"`         // relative to the config directory
	MaxAgeMinutes int    `yaml:"max_age_minutes"` // stored credentials older than this are pruned; 0 keeps them
}

// UIConfig holds presentation settings for the terminal interface.
type UIConfig struct {
	NotificationSeconds int    `yaml:"notification_seconds"`
	DateFormat          string `yaml:"date_format"`
}

const configFile = "config.yaml"

const defaultNotificationSeconds = 4

// DirName is the directory created under the user's home directory.
const DirName = ".trace"

// DefaultDir returns ~/.trace, falling back to ./.trace when the home
// directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// ReadConfig reads config.yaml from dir.
// Returns an error if the file is not found or YAML is malformed.
// Fields missing from the file keep their default values.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml in dir.
// Creates dir if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		Session: SessionConfig{
			Persist:       false,
			DBFile:        "sessions.db",
			MaxAgeMinutes: 30,
		},
		UI: UIConfig{
			NotificationSeconds: defaultNotificationSeconds,
			DateFormat:          "2006-01-02 15:04:05",
		},
	}
}

// Timeout returns the per-request bound, or zero when disabled.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// NotificationTTL returns how long a notification stays on screen. Unset
// or non-positive values fall back to the default.
func (c *Config) NotificationTTL() time.Duration {
	if c.UI.NotificationSeconds <= 0 {
		return defaultNotificationSeconds * time.Second
	}
	return time.Duration(c.UI.NotificationSeconds) * time.Second
}

// CredentialMaxAge returns how long a stored credential stays usable, or
// zero when credentials never expire locally.
func (c *Config) CredentialMaxAge() time.Duration {
	if c.Session.MaxAgeMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Session.MaxAgeMinutes) * time.Minute
}

// DBPath resolves the session database path against dir.
func (c *Config) DBPath(dir string) string {
	if filepath.IsAbs(c.Session.DBFile) {
		return c.Session.DBFile
	}
	return filepath.Join(dir, c.Session.DBFile)
}
