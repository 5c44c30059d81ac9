package train

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/wiki-diseases/internal/common"
	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/bayes"
	"github.com/dtnitsch/wiki-diseases/pkg/dataset"
	"github.com/dtnitsch/wiki-diseases/pkg/db"
	"github.com/dtnitsch/wiki-diseases/pkg/modelstore"
	"github.com/urfave/cli/v2"
)

// Summary is printed to stdout after a successful run.
type Summary struct {
	Status           string              `json:"status" yaml:"status"`
	RunID            string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	ModelPath        string              `json:"model_path" yaml:"model_path"`
	PositiveCount    int                 `json:"positive_count" yaml:"positive_count"`
	NegativeCount    int                 `json:"negative_count" yaml:"negative_count"`
	TrainFraction    float64             `json:"train_fraction" yaml:"train_fraction"`
	TestCount        int                 `json:"test_count" yaml:"test_count"`
	Accuracy         *float64            `json:"accuracy" yaml:"accuracy"`
	Precision        float64             `json:"precision" yaml:"precision"`
	Recall           float64             `json:"recall" yaml:"recall"`
	Evaluation       bayes.Evaluation    `json:"evaluation" yaml:"evaluation"`
	Informative      []bayes.Informative `json:"informative_features,omitempty" yaml:"informative_features,omitempty"`
	TopTokens        map[string][]string `json:"top_tokens,omitempty" yaml:"top_tokens,omitempty"`
	Warnings         []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	TotalTimeSeconds float64             `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// ParseSample reads a sample size flag. "all" and "" mean no sampling.
func ParseSample(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("sample size %q is not a number or \"all\": %w", value, models.ErrInvalidArgument)
	}
	if n < 0 {
		return nil, fmt.Errorf("sample size %d must not be negative: %w", n, models.ErrInvalidArgument)
	}
	return &n, nil
}

func TrainAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if err := common.ValidateFormat(format); err != nil {
		return err
	}

	positiveDir := c.String("positive")
	negativeDir := c.String("negative")
	outputPath := c.String("output")

	posSample, err := ParseSample(c.String("positive-sample"))
	if err != nil {
		return err
	}
	negSample, err := ParseSample(c.String("negative-sample"))
	if err != nil {
		return err
	}

	if info, err := os.Stat(filepath.Dir(outputPath)); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory for %s: %w", outputPath, models.ErrNotFound)
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Resolve both file sets before any extraction so bad arguments fail fast.
	posFiles, err := dataset.Select(positiveDir, posSample, rng)
	if err != nil {
		return err
	}
	negFiles, err := dataset.Select(negativeDir, negSample, rng)
	if err != nil {
		return err
	}

	extractor := common.NewExtractor(cfg)
	cache, err := common.OpenCache(cfg, extractor)
	if err != nil {
		return err
	}
	opts := dataset.Options{
		Workers:   common.PoolSize(cfg),
		Extractor: extractor,
		Cache:     cache,
		Logger:    logger,
	}

	logger.Info("Building features", "positive_count", len(posFiles), "negative_count", len(negFiles), "workers", opts.Workers, "seed", seed)
	posExamples, err := dataset.Extract(posFiles, models.LabelPositive, opts)
	if err != nil {
		return fmt.Errorf("positive examples: %w", err)
	}
	negExamples, err := dataset.Extract(negFiles, models.LabelNegative, opts)
	if err != nil {
		return fmt.Errorf("negative examples: %w", err)
	}

	result, err := bayes.Train(posExamples, negExamples, cfg.TrainFraction, cfg.Smoothing)
	if err != nil {
		return err
	}

	summary := &Summary{
		Status:        "success",
		ModelPath:     outputPath,
		PositiveCount: len(posExamples),
		NegativeCount: len(negExamples),
		TrainFraction: cfg.TrainFraction,
		TestCount:     len(result.TestPositive) + len(result.TestNegative),
		Evaluation:    result.Evaluation,
		Precision:     result.Evaluation.Precision(),
		Recall:        result.Evaluation.Recall(),
	}
	if result.EmptyTestSet {
		logger.Warn("No test examples held out, accuracy is undefined", "train_fraction", cfg.TrainFraction, "error", models.ErrEmptyTestSet)
		summary.Warnings = append(summary.Warnings, models.ErrEmptyTestSet.Error())
	} else {
		accuracy := result.Accuracy
		summary.Accuracy = &accuracy
		logger.Info("Trained accuracy on test set", "accuracy", accuracy, "test_count", summary.TestCount,
			"precision", summary.Precision, "recall", summary.Recall)
	}

	snapshot := result.Model.Export()
	if n := c.Int("informative"); n > 0 {
		summary.Informative = snapshot.MostInformative(n)
		for _, inf := range summary.Informative {
			logger.Info("Informative feature", "token", inf.Token, "favors", inf.Favors, "ratio", inf.Ratio)
		}
		summary.TopTokens = make(map[string][]string, len(models.Labels))
		for _, label := range models.Labels {
			summary.TopTokens[string(label)] = result.Model.TopTokens(label, n)
		}
	}

	if err := modelstore.SaveSnapshot(snapshot, outputPath); err != nil {
		return err
	}
	logger.Info("Saved model", "path", outputPath)

	if ledger := common.OpenLedger(cfg, logger); ledger != nil {
		defer ledger.Close()
		run := &db.TrainingRun{
			PositiveDir:    positiveDir,
			NegativeDir:    negativeDir,
			ModelPath:      outputPath,
			PositiveCount:  summary.PositiveCount,
			NegativeCount:  summary.NegativeCount,
			TrainFraction:  cfg.TrainFraction,
			Accuracy:       db.NewNullFloat64(result.Accuracy, !result.EmptyTestSet),
			TestCount:      summary.TestCount,
			TruePositives:  result.Evaluation.TruePositives,
			FalsePositives: result.Evaluation.FalsePositives,
			TrueNegatives:  result.Evaluation.TrueNegatives,
			FalseNegatives: result.Evaluation.FalseNegatives,
		}
		if runID, err := ledger.RecordTrainingRun(run); err != nil {
			logger.Warn("Failed to record training run", "error", err)
		} else {
			summary.RunID = runID
		}
	}

	summary.TotalTimeSeconds = time.Since(startTime).Seconds()
	return common.WriteOutput(c.App.Writer, summary, format)
}
