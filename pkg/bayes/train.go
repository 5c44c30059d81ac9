package bayes

import (
	"errors"
	"fmt"
	"math"

	"github.com/dtnitsch/wiki-diseases/models"
)

// DefaultTrainFraction is the share of each class used for training.
const DefaultTrainFraction = 0.6

// Split cuts examples at floor(fraction * len(examples)). The prefix is the
// training set and the suffix the test set.
func Split(examples []models.LabeledExample, fraction float64) (train, test []models.LabeledExample, err error) {
	if err := validateFraction(fraction); err != nil {
		return nil, nil, err
	}
	cut := int(math.Floor(fraction * float64(len(examples))))
	return examples[:cut:cut], examples[cut:], nil
}

func validateFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction <= 0 || fraction > 1 {
		return fmt.Errorf("train fraction %v must be in (0, 1]: %w", fraction, models.ErrInvalidArgument)
	}
	return nil
}

// Evaluation summarizes classifier performance on a labeled test set, with
// the positive class as the class of interest.
type Evaluation struct {
	Total          int `json:"total" yaml:"total"`
	Correct        int `json:"correct" yaml:"correct"`
	TruePositives  int `json:"true_positives" yaml:"true_positives"`
	FalsePositives int `json:"false_positives" yaml:"false_positives"`
	TrueNegatives  int `json:"true_negatives" yaml:"true_negatives"`
	FalseNegatives int `json:"false_negatives" yaml:"false_negatives"`
}

// Accuracy is correct / total, or 0 for an empty evaluation.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Precision of the positive class, or 0 when nothing was predicted positive.
func (e Evaluation) Precision() float64 {
	predicted := e.TruePositives + e.FalsePositives
	if predicted == 0 {
		return 0
	}
	return float64(e.TruePositives) / float64(predicted)
}

// Recall of the positive class, or 0 when there were no positives.
func (e Evaluation) Recall() float64 {
	actual := e.TruePositives + e.FalseNegatives
	if actual == 0 {
		return 0
	}
	return float64(e.TruePositives) / float64(actual)
}

// Evaluate classifies every example and compares against its label.
// It returns ErrEmptyTestSet when examples is empty.
func Evaluate(c Classifier, examples []models.LabeledExample) (Evaluation, error) {
	var ev Evaluation
	if len(examples) == 0 {
		return ev, ErrEmptyTestSet
	}

	for _, ex := range examples {
		predicted := c.Classify(ex.Features)
		ev.Total++
		if predicted == ex.Label {
			ev.Correct++
		}
		switch {
		case predicted == models.LabelPositive && ex.Label == models.LabelPositive:
			ev.TruePositives++
		case predicted == models.LabelPositive:
			ev.FalsePositives++
		case ex.Label == models.LabelNegative:
			ev.TrueNegatives++
		default:
			ev.FalseNegatives++
		}
	}
	return ev, nil
}

// ErrEmptyTestSet is models.ErrEmptyTestSet, re-exported for callers that
// only import this package.
var ErrEmptyTestSet = models.ErrEmptyTestSet

// TrainResult is the outcome of Train.
type TrainResult struct {
	Model        *NaiveBayes
	Evaluation   Evaluation
	Accuracy     float64
	TestPositive []models.LabeledExample
	TestNegative []models.LabeledExample
	// EmptyTestSet is set when no examples were held out. Accuracy is 0.
	EmptyTestSet bool
}

// Train splits each class at the train fraction, fits a classifier on the
// training prefixes and measures accuracy on the pooled test suffixes.
func Train(positive, negative []models.LabeledExample, fraction, smoothing float64) (*TrainResult, error) {
	posTrain, posTest, err := Split(positive, fraction)
	if err != nil {
		return nil, err
	}
	negTrain, negTest, err := Split(negative, fraction)
	if err != nil {
		return nil, err
	}

	training := make([]models.LabeledExample, 0, len(posTrain)+len(negTrain))
	training = append(training, posTrain...)
	training = append(training, negTrain...)

	model, err := Fit(training, smoothing)
	if err != nil {
		return nil, err
	}

	test := make([]models.LabeledExample, 0, len(posTest)+len(negTest))
	test = append(test, posTest...)
	test = append(test, negTest...)

	result := &TrainResult{
		Model:        model,
		TestPositive: posTest,
		TestNegative: negTest,
	}
	ev, err := Evaluate(model, test)
	if errors.Is(err, ErrEmptyTestSet) {
		result.EmptyTestSet = true
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Evaluation = ev
	result.Accuracy = ev.Accuracy()
	return result, nil
}
