package runs

import (
	"fmt"
	"time"

	"github.com/dtnitsch/wiki-diseases/internal/common"
	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/dtnitsch/wiki-diseases/pkg/db"
	"github.com/urfave/cli/v2"
)

// TrainingRunOutput is the printable form of a training run.
type TrainingRunOutput struct {
	RunID         string   `json:"run_id" yaml:"run_id"`
	CreatedAt     string   `json:"created_at" yaml:"created_at"`
	ModelPath     string   `json:"model_path" yaml:"model_path"`
	PositiveCount int      `json:"positive_count" yaml:"positive_count"`
	NegativeCount int      `json:"negative_count" yaml:"negative_count"`
	TrainFraction float64  `json:"train_fraction" yaml:"train_fraction"`
	Accuracy      *float64 `json:"accuracy" yaml:"accuracy"`
}

// ClassificationRunOutput is the printable form of a classification run.
type ClassificationRunOutput struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	CreatedAt  string `json:"created_at" yaml:"created_at"`
	ExampleDir string `json:"example_dir" yaml:"example_dir"`
	ModelPath  string `json:"model_path" yaml:"model_path"`
	Total      int    `json:"total" yaml:"total"`
	Positive   int    `json:"positive" yaml:"positive"`
	Negative   int    `json:"negative" yaml:"negative"`
	Failed     int    `json:"failed" yaml:"failed"`
}

// ListOutput is printed by "runs list".
type ListOutput struct {
	Training       []TrainingRunOutput       `json:"training" yaml:"training"`
	Classification []ClassificationRunOutput `json:"classification" yaml:"classification"`
}

func openLedger(c *cli.Context) (*db.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("run ledger is disabled (empty db path): %w", models.ErrInvalidArgument)
	}
	return db.Open(cfg.DBPath)
}

func ListAction(c *cli.Context) error {
	database, err := openLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	limit := c.Int("limit")
	training, err := database.ListTrainingRuns(limit)
	if err != nil {
		return err
	}
	classification, err := database.ListClassificationRuns(limit)
	if err != nil {
		return err
	}

	out := ListOutput{
		Training:       make([]TrainingRunOutput, 0, len(training)),
		Classification: make([]ClassificationRunOutput, 0, len(classification)),
	}
	for _, r := range training {
		row := TrainingRunOutput{
			RunID:         r.RunID,
			CreatedAt:     r.CreatedAt.Format(time.RFC3339),
			ModelPath:     r.ModelPath,
			PositiveCount: r.PositiveCount,
			NegativeCount: r.NegativeCount,
			TrainFraction: r.TrainFraction,
		}
		if r.Accuracy.Valid {
			acc := r.Accuracy.Float64
			row.Accuracy = &acc
		}
		out.Training = append(out.Training, row)
	}
	for _, r := range classification {
		out.Classification = append(out.Classification, ClassificationRunOutput{
			RunID:      r.RunID,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
			ExampleDir: r.ExampleDir,
			ModelPath:  r.ModelPath,
			Total:      r.DocCount,
			Positive:   r.PositiveCount,
			Negative:   r.NegativeCount,
			Failed:     r.FailedCount,
		})
	}

	return common.WriteOutput(c.App.Writer, out, c.String("format"))
}

func ShowAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected a classification run ID: %w", models.ErrInvalidArgument)
	}

	database, err := openLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	predictions, err := database.GetPredictions(c.Args().First())
	if err != nil {
		return err
	}

	type row struct {
		Path  string `json:"path" yaml:"path"`
		Label string `json:"label,omitempty" yaml:"label,omitempty"`
		Title string `json:"title,omitempty" yaml:"title,omitempty"`
		Error string `json:"error,omitempty" yaml:"error,omitempty"`
	}
	rows := make([]row, 0, len(predictions))
	for _, p := range predictions {
		rows = append(rows, row{Path: p.FilePath, Label: p.Label, Title: p.Title, Error: p.Error})
	}
	return common.WriteOutput(c.App.Writer, rows, c.String("format"))
}
