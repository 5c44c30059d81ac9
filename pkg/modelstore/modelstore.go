// Package modelstore persists trained classifiers.
package modelstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/bayes"
	"gopkg.in/yaml.v3"
)

const (
	formatName    = "wiki-diseases/naive-bayes"
	formatVersion = 1
)

// artifact is the on-disk layout. Floats are written with the shortest
// representation that round-trips exactly.
type artifact struct {
	Format         string `yaml:"format"`
	Version        int    `yaml:"version"`
	bayes.Snapshot `yaml:",inline"`
}

// Save exports the model, dropping its training examples, and writes the
// result to path. The live model is left untouched.
func Save(model *bayes.NaiveBayes, path string) error {
	return SaveSnapshot(model.Export(), path)
}

// SaveSnapshot writes an exported snapshot to path. The file is written to a
// temporary name first so a failed save never leaves a truncated model.
func SaveSnapshot(snap *bayes.Snapshot, path string) error {
	data, err := yaml.Marshal(artifact{
		Format:   formatName,
		Version:  formatVersion,
		Snapshot: *snap,
	})
	if err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error saving model: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error saving model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error saving model: %w", err)
	}
	return nil
}

// Load reads a model written by Save.
func Load(path string) (*bayes.Snapshot, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("model %s: %w", path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("error reading model: %w", err)
	}

	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("error decoding model %s: %w", path, err)
	}
	if a.Format != formatName {
		return nil, fmt.Errorf("%s is not a model file (format %q)", path, a.Format)
	}
	if a.Version != formatVersion {
		return nil, fmt.Errorf("model %s has unsupported version %d", path, a.Version)
	}
	if len(a.Labels) == 0 || len(a.LogPriors) == 0 {
		return nil, fmt.Errorf("model %s has no class priors", path)
	}

	snap := a.Snapshot
	return &snap, nil
}
