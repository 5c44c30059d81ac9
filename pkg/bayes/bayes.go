// Package bayes implements the Naive Bayes disease/non-disease classifier.
//
// Each feature string is treated as a set of tokens. For every class c the
// model estimates P(c) from class frequency and P(t|c) as
//
//	(docs in c containing t + alpha) / (docs in c + 2*alpha)
//
// A document scores log P(c) + sum of log P(t|c) over its tokens; tokens
// never seen in training are ignored.
package bayes

import (
	"fmt"
	"math"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/features"
	"github.com/dtnitsch/wiki-diseases/pkg/mapreduce"
)

// DefaultSmoothing is Laplace smoothing.
const DefaultSmoothing = 1.0

// Classifier predicts the class of a feature string.
type Classifier interface {
	Classify(featureString string) models.Label
}

// NaiveBayes is a trained, live classifier. It keeps its training examples
// so it can absorb more data with Update; Export strips them.
type NaiveBayes struct {
	smoothing   float64
	examples    []models.LabeledExample
	docCounts   map[models.Label]int
	tokenCounts map[models.Label]map[string]int
	snapshot    *Snapshot
}

// Fit trains a classifier on labeled examples.
func Fit(examples []models.LabeledExample, smoothing float64) (*NaiveBayes, error) {
	if smoothing <= 0 {
		return nil, fmt.Errorf("smoothing %v must be positive: %w", smoothing, models.ErrInvalidArgument)
	}
	nb := &NaiveBayes{smoothing: smoothing}
	if err := nb.Update(examples); err != nil {
		return nil, err
	}
	return nb, nil
}

// Update adds examples to the training data and rebuilds the probability
// tables. Snapshots exported earlier are not affected.
func (nb *NaiveBayes) Update(examples []models.LabeledExample) error {
	for _, ex := range examples {
		if !ex.Label.Valid() {
			return fmt.Errorf("example %q has label %q: %w", ex.Path, ex.Label, models.ErrInvalidArgument)
		}
	}
	all := make([]models.LabeledExample, 0, len(nb.examples)+len(examples))
	all = append(all, nb.examples...)
	all = append(all, examples...)
	if len(all) == 0 {
		return fmt.Errorf("no training examples: %w", models.ErrInvalidArgument)
	}

	intermediate := make(map[models.Label][]map[string]int, len(models.Labels))
	docCounts := make(map[models.Label]int, len(models.Labels))
	for _, ex := range all {
		docCounts[ex.Label]++
		intermediate[ex.Label] = append(intermediate[ex.Label], mapreduce.Map(features.Tokens(ex.Features)))
	}

	tokenCounts := make(map[models.Label]map[string]int, len(models.Labels))
	for _, label := range models.Labels {
		tokenCounts[label] = mapreduce.Reduce(intermediate[label])
	}

	nb.examples = all
	nb.docCounts = docCounts
	nb.tokenCounts = tokenCounts
	nb.snapshot = nb.buildSnapshot()
	return nil
}

func (nb *NaiveBayes) buildSnapshot() *Snapshot {
	total := 0
	for _, n := range nb.docCounts {
		total += n
	}

	s := &Snapshot{
		Labels:         append([]models.Label(nil), models.Labels...),
		Smoothing:      nb.smoothing,
		LogPriors:      make(map[models.Label]float64, len(models.Labels)),
		LogUnseen:      make(map[models.Label]float64, len(models.Labels)),
		LogLikelihoods: make(map[models.Label]map[string]float64, len(models.Labels)),
	}
	for _, label := range models.Labels {
		docs := float64(nb.docCounts[label])
		denom := docs + 2*nb.smoothing

		s.LogPriors[label] = math.Log(docs / float64(total))
		s.LogUnseen[label] = math.Log(nb.smoothing / denom)

		table := make(map[string]float64, len(nb.tokenCounts[label]))
		for tok, count := range nb.tokenCounts[label] {
			table[tok] = math.Log((float64(count) + nb.smoothing) / denom)
		}
		s.LogLikelihoods[label] = table
	}
	return s
}

// Classify implements Classifier.
func (nb *NaiveBayes) Classify(featureString string) models.Label {
	return nb.snapshot.Classify(featureString)
}

// Scores returns the log-domain score of each class.
func (nb *NaiveBayes) Scores(featureString string) map[models.Label]float64 {
	return nb.snapshot.Scores(featureString)
}

// ExampleCount returns the number of retained training examples.
func (nb *NaiveBayes) ExampleCount() int {
	return len(nb.examples)
}

// ClassCounts returns the number of training examples per class.
func (nb *NaiveBayes) ClassCounts() map[models.Label]int {
	out := make(map[models.Label]int, len(nb.docCounts))
	for k, v := range nb.docCounts {
		out[k] = v
	}
	return out
}

// TopTokens returns the n tokens present in the most training documents of
// label, formatted as "token:count".
func (nb *NaiveBayes) TopTokens(label models.Label, n int) []string {
	return mapreduce.TopKeywords(nb.tokenCounts[label], n)
}

// Export copies the probability tables into a standalone Snapshot with no
// reference to training data.
func (nb *NaiveBayes) Export() *Snapshot {
	return nb.snapshot.clone()
}
