// Package batch classifies every document in a directory with a trained model.
package batch

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/bayes"
	"github.com/dtnitsch/wiki-diseases/pkg/document"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/dtnitsch/wiki-diseases/pkg/workers"
)

// Options controls a classification batch.
type Options struct {
	Workers           int
	Extractor         *features.Extractor
	TitleSuffixLength int
	Logger            *slog.Logger
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

// Stats counts the outcomes of a batch.
type Stats struct {
	Total    int `json:"total" yaml:"total"`
	Positive int `json:"positive" yaml:"positive"`
	Negative int `json:"negative" yaml:"negative"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Summarize counts labels and failures across results.
func Summarize(results []models.PredictionResult) Stats {
	s := Stats{Total: len(results)}
	for _, r := range results {
		switch {
		case !r.OK():
			s.Failed++
		case r.Label == models.LabelPositive:
			s.Positive++
		default:
			s.Negative++
		}
	}
	return s
}

type prediction struct {
	label models.Label
	title string
}

// ClassifyFiles predicts a label and extracts the title of every file.
// Results are in the order of files. A document that fails to load, parse or
// yield a title gets a result with Err set; the rest of the batch continues.
// When only the title fails, the result still carries the predicted label.
func ClassifyFiles(files []string, model bayes.Classifier, opts Options) []models.PredictionResult {
	opts = opts.withDefaults()

	outcomes := workers.Map(opts.Workers, files, func(path string) (prediction, error) {
		doc, err := document.Load(path)
		if err != nil {
			return prediction{}, err
		}
		p := prediction{label: model.Classify(opts.Extractor.Extract(doc))}
		p.title, err = document.Title(doc, opts.TitleSuffixLength)
		return p, err
	})

	results := make([]models.PredictionResult, len(files))
	for _, o := range outcomes {
		path := files[o.Index]
		r := models.PredictionResult{Path: path, Label: o.Value.label, Title: o.Value.title}
		if o.Err != nil {
			opts.Logger.Warn("Failed to classify document", "path", path, "label", r.Label, "error", o.Err)
			r.Err = &models.DocumentError{Path: path, Err: o.Err}
		}
		results[o.Index] = r
	}
	return results
}

// Classify lists the files in dir and classifies them.
func Classify(dir string, model bayes.Classifier, opts Options) ([]models.PredictionResult, error) {
	files, err := document.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return ClassifyFiles(files, model, opts), nil
}
