// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultPurgeDays is how long search sessions are retained before the
// janitor removes them.
const DefaultPurgeDays = 90

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment
// variables, or must be provided via CLI flags.
type Config struct {
	// Services
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis connection URL (optional cache)

	// Server
	Port string `json:"port,omitempty"` // HTTP listen port

	// Behavior
	APIKey     string `json:"api_key,omitempty"`     // Default Gemini API key (users may bring their own)
	UseBrowser bool   `json:"use_browser,omitempty"` // Use headless browser for SPA resume pages
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed debug information
	PurgeDays  int    `json:"purge_days,omitempty"`  // Session retention in days
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

// FromEnv builds a Config from environment variables. Used as the defaults
// layer underneath an optional config file.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Port:        os.Getenv("PORT"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	}
	if v := os.Getenv("PURGE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.PurgeDays = days
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.PurgeDays < 0 {
		return fmt.Errorf("config error: 'purge_days' must be non-negative")
	}
	if c.Port != "" {
		if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("config error: 'port' must be a valid port number, got %q", c.Port)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply environment values as defaults for config
// file and CLI flag values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.PurgeDays == 0 {
		if defaults.PurgeDays > 0 {
			result.PurgeDays = defaults.PurgeDays
		} else {
			result.PurgeDays = DefaultPurgeDays
		}
	}
	if result.Port == "" {
		result.Port = "8080"
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
