package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/user/taillight/internal/store"
)

// Config holds all application configuration
type Config struct {
	Buffer BufferConfig `toml:"buffer"`
	Theme  ThemeConfig  `toml:"theme"`
}

// BufferConfig bounds the in-memory line buffer
type BufferConfig struct {
	MaxLines int `toml:"max_lines"`
}

// ThemeConfig defines UI colors and the pattern color cycle
type ThemeConfig struct {
	StatusBar     string   `toml:"status_bar"`
	StatusBarText string   `toml:"status_bar_text"`
	HintText      string   `toml:"hint_text"`
	DialogBorder  string   `toml:"dialog_border"`
	Palette       []string `toml:"palette"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Buffer: BufferConfig{
			MaxLines: store.DefaultCapacity,
		},
		Theme: ThemeConfig{
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			HintText:      "240", // Dark gray
			DialogBorder:  "62",
		},
	}
}

// Load loads config from file, falling back to defaults
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads config from an explicit path. A missing file yields
// the defaults; a malformed one is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Buffer.MaxLines <= 0 {
		cfg.Buffer.MaxLines = store.DefaultCapacity
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taillight", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "taillight", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
