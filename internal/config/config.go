// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "whiteboard"

// Environment overrides.
const (
	EnvAPIURL   = "WHITEBOARD_API_URL"
	EnvLogLevel = "WHITEBOARD_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Board BoardConfig `yaml:"board"`
	UI    UIConfig    `yaml:"ui"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// BoardConfig holds polling and session lifetime settings.
type BoardConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	// LogoutAt is the local wall-clock time (HH:MM) of the daily forced logout.
	LogoutAt string `yaml:"logout_at"`
	// Timezone is an IANA zone name; empty means the system zone.
	Timezone string `yaml:"timezone,omitempty"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	ToastSeconds         int  `yaml:"toast_seconds"`
	DesktopNotifications bool `yaml:"desktop_notifications"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	// File overrides the default <data dir>/whiteboard.log.
	File string `yaml:"file,omitempty"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     "http://localhost:3001/api",
			Timeout: 30 * time.Second,
		},
		Board: BoardConfig{
			PollInterval: 5 * time.Minute,
			LogoutAt:     "20:00",
		},
		UI: UIConfig{
			ToastSeconds: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the path to the data directory for logs and sessions.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/whiteboard/
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(dataHome, appName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}

// Load reads the configuration from the config file, then applies .env and
// environment overrides. If the file doesn't exist, defaults are used.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile is Save for an explicit path.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("invalid config: api.url is empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid config: api.timeout must be positive")
	}
	if c.Board.PollInterval < time.Second {
		return fmt.Errorf("invalid config: board.poll_interval must be at least 1s")
	}
	if _, _, err := c.LogoutClock(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.UI.ToastSeconds <= 0 {
		c.UI.ToastSeconds = 3
	}
	return nil
}

// LogoutClock returns the hour and minute of board.logout_at.
func (c *Config) LogoutClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.Board.LogoutAt))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid config: board.logout_at %q is not HH:MM", c.Board.LogoutAt)
	}
	return t.Hour(), t.Minute(), nil
}

// Location returns the board's time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Board.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Board.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid config: board.timezone: %w", err)
	}
	return loc, nil
}

// ToastDuration returns how long toasts stay on screen.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastSeconds) * time.Second
}
