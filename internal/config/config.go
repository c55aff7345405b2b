// Package config loads fleetsearch settings from YAML with environment
// overrides layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig locates the inventory snapshot store.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// IndexConfig controls the fuzzy text index. With Enabled false searches
// use substring matching.
type IndexConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Threshold float64            `yaml:"threshold"`
	Weights   map[string]float64 `yaml:"weights"`
}

type SearchConfig struct {
	PageSize    int    `yaml:"page_size"`
	DefaultSort string `yaml:"default_sort"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given. dir is the
// data directory holding the snapshot store.
func Default(dir string) *Config {
	return &Config{
		Store: StoreConfig{Dir: dir},
		Index: IndexConfig{
			Enabled:   true,
			Threshold: 0.3,
		},
		Search: SearchConfig{
			PageSize:    20,
			DefaultSort: "relevance",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over Default(dir) and applies environment
// overrides. An empty path skips the file.
func Load(path, dir string) (*Config, error) {
	cfg := Default(dir)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if cfg.Store.Dir != "" && !filepath.IsAbs(cfg.Store.Dir) {
			cfg.Store.Dir = filepath.Join(filepath.Dir(path), cfg.Store.Dir)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Dir == "" {
		return fmt.Errorf("store dir is required")
	}
	if c.Index.Threshold < 0 || c.Index.Threshold > 1 {
		return fmt.Errorf("index threshold must be between 0 and 1, got %v", c.Index.Threshold)
	}
	for field, w := range c.Index.Weights {
		if w < 0 {
			return fmt.Errorf("negative weight for field %s", field)
		}
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEETSEARCH_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("FLEETSEARCH_INDEX"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Index.Enabled = enabled
		}
	}
	if v := os.Getenv("FLEETSEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FLEETSEARCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
