// Package dataset turns directories of labeled HTML documents into training
// examples.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/caching"
	"github.com/dtnitsch/wiki-diseases/pkg/document"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/dtnitsch/wiki-diseases/pkg/workers"
)

// Options controls feature extraction for a set of files.
type Options struct {
	Workers   int
	Extractor *features.Extractor
	// Cache is optional.
	Cache  *caching.Cache
	Logger *slog.Logger
	// AllowPartial skips failed documents instead of failing the whole set.
	AllowPartial bool
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = workers.SizeFromCPU(workers.DefaultFraction, 0)
	}
	if o.Extractor == nil {
		o.Extractor = features.New(nil, features.DefaultParagraphs)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Select lists the files in dir and optionally draws a random sample of size
// *sample without replacement. A nil sample keeps every file in listing order.
func Select(dir string, sample *int, rng *rand.Rand) ([]string, error) {
	files, err := document.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return files, nil
	}

	n := *sample
	if n < 0 {
		return nil, fmt.Errorf("sample size %d must not be negative: %w", n, models.ErrInvalidArgument)
	}
	if n > len(files) {
		return nil, fmt.Errorf("sample size %d exceeds %d files in %s: %w", n, len(files), dir, models.ErrInvalidArgument)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	shuffled := make([]string, len(files))
	copy(shuffled, files)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n], nil
}

// Extract computes the feature string of every file in parallel and tags it
// with label. Unless AllowPartial is set, any failed document fails the set
// with an error joining every per-document failure.
func Extract(files []string, label models.Label, opts Options) ([]models.LabeledExample, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("label %q: %w", label, models.ErrInvalidArgument)
	}
	opts = opts.withDefaults()

	outcomes := workers.Map(opts.Workers, files, func(path string) (string, error) {
		return extractOne(path, opts)
	})

	examples := make([]models.LabeledExample, 0, len(files))
	var errs []error
	for _, o := range outcomes {
		path := files[o.Index]
		if o.Err != nil {
			opts.Logger.Warn("Failed to extract features", "path", path, "label", label, "error", o.Err)
			errs = append(errs, &models.DocumentError{Path: path, Err: o.Err})
			continue
		}
		examples = append(examples, models.LabeledExample{
			Features: o.Value,
			Label:    label,
			Path:     path,
		})
	}

	if len(errs) > 0 && !opts.AllowPartial {
		return examples, fmt.Errorf("%d of %d documents failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return examples, nil
}

// Build selects and extracts the files of one labeled directory.
func Build(dir string, label models.Label, sample *int, rng *rand.Rand, opts Options) ([]models.LabeledExample, error) {
	files, err := Select(dir, sample, rng)
	if err != nil {
		return nil, err
	}
	return Extract(files, label, opts)
}

func extractOne(path string, opts Options) (string, error) {
	raw, err := document.Read(path)
	if err != nil {
		return "", err
	}

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(raw); ok {
			return cached, nil
		}
	}

	fs, err := opts.Extractor.ExtractBytes(raw)
	if err != nil {
		return "", err
	}

	if opts.Cache != nil {
		if err := opts.Cache.Set(raw, fs); err != nil {
			opts.Logger.Warn("Failed to cache features", "path", path, "error", err)
		}
	}
	return fs, nil
}
