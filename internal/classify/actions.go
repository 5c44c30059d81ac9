package classify

import (
	"fmt"
	"time"

	"github.com/dtnitsch/wiki-diseases/internal/common"
	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/batch"
	"github.com/dtnitsch/wiki-diseases/pkg/db"
	"github.com/dtnitsch/wiki-diseases/pkg/modelstore"
	"github.com/urfave/cli/v2"
)

// ResultSummary is the printed outcome for one document.
type ResultSummary struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status           string          `json:"status" yaml:"status"`
	RunID            string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Results          []ResultSummary `json:"results" yaml:"results"`
	Stats            batch.Stats     `json:"stats" yaml:"stats"`
	TotalTimeSeconds float64         `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// BuildOutput converts batch results into printable summaries. Titles are
// only included when withNames is set.
func BuildOutput(results []models.PredictionResult, withNames bool) *FinalOutput {
	out := &FinalOutput{
		Status:  "success",
		Results: make([]ResultSummary, 0, len(results)),
		Stats:   batch.Summarize(results),
	}
	for _, r := range results {
		s := ResultSummary{Path: r.Path, Status: "ok", Label: string(r.Label)}
		if !r.OK() {
			s.Status = "failed"
			s.Error = r.Err.Error()
		} else if withNames {
			s.Title = r.Title
		}
		out.Results = append(out.Results, s)
	}
	if out.Stats.Failed > 0 {
		out.Status = "partial"
	}
	return out
}

func ClassifyAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	if c.NArg() != 2 {
		return fmt.Errorf("expected EXAMPLE_DIR and CLASSIFIER_PATH, got %d arguments: %w", c.NArg(), models.ErrInvalidArgument)
	}
	exampleDir := c.Args().Get(0)
	modelPath := c.Args().Get(1)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	format := c.String("format")
	if err := common.ValidateFormat(format); err != nil {
		return err
	}

	model, err := modelstore.Load(modelPath)
	if err != nil {
		return err
	}

	opts := batch.Options{
		Workers:           common.PoolSize(cfg),
		Extractor:         common.NewExtractor(cfg),
		TitleSuffixLength: cfg.TitleSuffixLength,
		Logger:            logger,
	}
	logger.Info("Classifying documents", "dir", exampleDir, "model", modelPath, "workers", opts.Workers)

	results, err := batch.Classify(exampleDir, model, opts)
	if err != nil {
		return err
	}

	output := BuildOutput(results, c.Bool("names"))
	logger.Info("Classification finished", "total", output.Stats.Total, "positive", output.Stats.Positive,
		"negative", output.Stats.Negative, "failed", output.Stats.Failed)

	if ledger := common.OpenLedger(cfg, logger); ledger != nil {
		defer ledger.Close()
		run := &db.ClassificationRun{ExampleDir: exampleDir, ModelPath: modelPath}
		if runID, err := ledger.RecordClassificationRun(run, results); err != nil {
			logger.Warn("Failed to record classification run", "error", err)
		} else {
			output.RunID = runID
		}
	}

	output.TotalTimeSeconds = time.Since(startTime).Seconds()
	return common.WriteOutput(c.App.Writer, output, format)
}
