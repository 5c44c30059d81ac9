// Package common holds helpers shared by the CLI actions.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/caching"
	"github.com/dtnitsch/wiki-diseases/pkg/db"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/dtnitsch/wiki-diseases/pkg/workers"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// NewLogger returns the JSON stderr logger used by every command.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config and applies any flags set on the command line.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("worker-fraction") {
		cfg.WorkerFraction = c.Float64("worker-fraction")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("train-fraction") {
		cfg.TrainFraction = c.Float64("train-fraction")
	}
	if c.IsSet("smoothing") {
		cfg.Smoothing = c.Float64("smoothing")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("title-suffix-length") {
		cfg.TitleSuffixLength = c.Int("title-suffix-length")
	}

	return cfg, cfg.Validate()
}

// PoolSize applies the worker sizing policy to cfg.
func PoolSize(cfg models.Config) int {
	return workers.SizeFromCPU(cfg.WorkerFraction, cfg.Workers)
}

// NewExtractor builds the feature extractor described by cfg.
func NewExtractor(cfg models.Config) *features.Extractor {
	return features.New(nil, cfg.Paragraphs)
}

// OpenCache returns nil when no cache directory is configured. Entries are
// keyed on the extractor's fingerprint.
func OpenCache(cfg models.Config, extractor *features.Extractor) (*caching.Cache, error) {
	if cfg.CacheDir == "" {
		return nil, nil
	}
	ttl, err := cfg.CacheDuration()
	if err != nil {
		return nil, err
	}
	return caching.NewCache(cfg.CacheDir, ttl, extractor.Fingerprint())
}

// OpenLedger returns nil when the ledger is disabled or cannot be opened.
func OpenLedger(cfg models.Config, logger *slog.Logger) *db.DB {
	if cfg.DBPath == "" {
		return nil
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("Failed to open run ledger", "path", cfg.DBPath, "error", err)
		return nil
	}
	return database
}

// ValidateFormat rejects output formats WriteOutput cannot produce.
func ValidateFormat(format string) error {
	switch format {
	case "", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or yaml): %w", format, models.ErrInvalidArgument)
	}
}

// WriteOutput encodes v as indented JSON or YAML.
func WriteOutput(w io.Writer, v interface{}, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return nil
}

// IsUsageError reports whether err stems from bad arguments or missing
// inputs rather than a failure during the run.
func IsUsageError(err error) bool {
	return errors.Is(err, models.ErrInvalidArgument) || errors.Is(err, models.ErrNotFound)
}
