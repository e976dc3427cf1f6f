// Package config loads settings for the neurocache command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the config file looked up in the working directory.
	DefaultFile = "neurocache.yaml"

	defaultPath     = "neurocache.db"
	defaultLogLevel = "info"

	envPath     = "NEUROCACHE_DB"
	envLogLevel = "NEUROCACHE_LOG_LEVEL"
)

// Config holds the command configuration.
type Config struct {
	Path     string `yaml:"path"`      // Database file.
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Load reads file if it exists, then applies environment overrides and
// defaults. A missing file is not an error.
func Load(file string) (*Config, error) {
	cfg, err := loadFromFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv(envPath); v != "" {
		cfg.Path = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	applyDefaults(cfg)
	return cfg, nil
}

func loadFromFile(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", file, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Path == "" {
		cfg.Path = defaultPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
}
