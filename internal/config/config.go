// Package config loads ontology engine configuration from YAML, with
// environment-variable overrides layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all recognized configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Fractal FractalConfig `yaml:"fractal"`
	Kernel  KernelConfig  `yaml:"kernel"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig controls persistence.
type StoreConfig struct {
	Path               string `yaml:"store_path"`
	PersistenceEnabled bool   `yaml:"persistence_enabled"`
}

// CacheConfig controls the node cache.
type CacheConfig struct {
	Size int `yaml:"cache_size"`
}

// FractalConfig controls the escape-time positioner.
type FractalConfig struct {
	MaxIter      int     `yaml:"max_iter"`
	EscapeRadius float64 `yaml:"escape_radius"`
}

// KernelConfig controls the expression kernel.
type KernelConfig struct {
	DefaultEvaluationFuel int `yaml:"default_evaluation_fuel"`
}

// LoggingConfig controls categorized logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:               "knowledge.db",
			PersistenceEnabled: true,
		},
		Cache: CacheConfig{
			Size: 1000,
		},
		Fractal: FractalConfig{
			MaxIter:      100,
			EscapeRadius: 2.0,
		},
		Kernel: KernelConfig{
			DefaultEvaluationFuel: 100,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from the given YAML path, falling back to
// DefaultConfig() if the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers ONTOS_* environment variables over whatever was
// loaded from YAML.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ONTOS_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("ONTOS_PERSISTENCE_ENABLED"); v != "" {
		c.Store.PersistenceEnabled = v != "false" && v != "0"
	}
	if v := os.Getenv("ONTOS_DEBUG"); v != "" {
		c.Logging.DebugMode = v == "true" || v == "1"
	}
}
