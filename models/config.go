// Package models defines data structures shared by the training and
// classification pipelines.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for train and classify runs.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	// WorkerFraction is the share of available cores handed to the extraction pool.
	WorkerFraction float64 `yaml:"worker_fraction"`
	// Workers pins the pool size. Zero derives it from WorkerFraction.
	Workers int `yaml:"workers"`

	TrainFraction     float64 `yaml:"train_fraction"`
	TitleSuffixLength int     `yaml:"title_suffix_length"`
	Paragraphs        int     `yaml:"paragraphs"`
	Smoothing         float64 `yaml:"smoothing"`

	DBPath   string `yaml:"db_path"`
	CacheDir string `yaml:"cache_dir"`
	CacheTTL string `yaml:"cache_ttl"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		WorkerFraction:    0.7,
		TrainFraction:     0.6,
		TitleSuffixLength: 35,
		Paragraphs:        3,
		Smoothing:         1.0,
		DBPath:            "diseases.db",
		CacheTTL:          "168h",
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config %s: %w", path, ErrNotFound)
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.WorkerFraction <= 0 || c.WorkerFraction > 1 {
		return fmt.Errorf("worker_fraction %v must be in (0, 1]: %w", c.WorkerFraction, ErrInvalidArgument)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative: %w", c.Workers, ErrInvalidArgument)
	}
	if c.TrainFraction <= 0 || c.TrainFraction > 1 {
		return fmt.Errorf("train_fraction %v must be in (0, 1]: %w", c.TrainFraction, ErrInvalidArgument)
	}
	if c.TitleSuffixLength < 0 {
		return fmt.Errorf("title_suffix_length %d must not be negative: %w", c.TitleSuffixLength, ErrInvalidArgument)
	}
	if c.Paragraphs < 0 {
		return fmt.Errorf("paragraphs %d must not be negative: %w", c.Paragraphs, ErrInvalidArgument)
	}
	if c.Smoothing <= 0 {
		return fmt.Errorf("smoothing %v must be positive: %w", c.Smoothing, ErrInvalidArgument)
	}
	if _, err := c.CacheDuration(); err != nil {
		return err
	}
	return nil
}

// CacheDuration parses CacheTTL.
func (c Config) CacheDuration() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("cache_ttl %q: %v: %w", c.CacheTTL, err, ErrInvalidArgument)
	}
	return d, nil
}
