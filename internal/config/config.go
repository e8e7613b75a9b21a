package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

const appDirName = "hotkey-bridge"

// Environment overrides, applied after the config file.
const (
	EnvLogLevel  = "HOTKEY_BRIDGE_LOG_LEVEL"
	EnvEventAddr = "HOTKEY_BRIDGE_EVENT_ADDR"
	EnvNotify    = "HOTKEY_BRIDGE_NOTIFY"
)

type Config struct {
	LogLevel      string            `json:"log_level"` // "debug", "info", "warn", "error"
	EventServer   EventServerConfig `json:"event_server"`
	Notifications bool              `json:"notifications"`
}

type EventServerConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		EventServer: EventServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:47613",
		},
		Notifications: true,
	}
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	// A .env in the working directory is optional
	_ = godotenv.Load()

	cfg, err := LoadFrom(configPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the config at path over the defaults. A missing file is
// not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvEventAddr); v != "" {
		c.EventServer.Addr = v
	}
	if v := getenv(EnvNotify); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNotify, err)
		}
		c.Notifications = b
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Path returns the config file location
func Path() string {
	return configPath()
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, appDirName, "config.json")
}
