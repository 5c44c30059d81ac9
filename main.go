package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/wiki-diseases/internal/classify"
	"github.com/dtnitsch/wiki-diseases/internal/common"
	"github.com/dtnitsch/wiki-diseases/internal/runs"
	"github.com/dtnitsch/wiki-diseases/internal/train"
	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if common.IsUsageError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := models.DefaultConfig()

	return &cli.App{
		Name:  "diseases",
		Usage: "Decide whether Wikipedia articles describe a disease",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Extraction pool size (0 derives it from --worker-fraction)",
			},
			&cli.Float64Flag{
				Name:  "worker-fraction",
				Value: defaults.WorkerFraction,
				Usage: "Share of CPU cores used for extraction",
			},
			&cli.StringFlag{
				Name:  "db",
				Value: defaults.DBPath,
				Usage: "SQLite run ledger path (empty disables it)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "Output format: json or yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "train",
				Usage:  "Train a classifier and save it to a file",
				Action: train.TrainAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "positive",
						Aliases: []string{"p"},
						Value:   "training/positive",
						Usage:   "Directory of disease articles",
					},
					&cli.StringFlag{
						Name:    "negative",
						Aliases: []string{"n"},
						Value:   "training/negative",
						Usage:   "Directory of non-disease articles",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "cl.model",
						Usage:   "Path of the model file to write",
					},
					&cli.StringFlag{
						Name:  "positive-sample",
						Value: "all",
						Usage: "Number of positive examples to draw at random",
					},
					&cli.StringFlag{
						Name:  "negative-sample",
						Value: "all",
						Usage: "Number of negative examples to draw at random",
					},
					&cli.Float64Flag{
						Name:  "train-fraction",
						Value: defaults.TrainFraction,
						Usage: "Share of each class used to train; the rest is the test set",
					},
					&cli.Float64Flag{
						Name:  "smoothing",
						Value: defaults.Smoothing,
						Usage: "Additive smoothing for token likelihoods",
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Directory for cached feature strings (empty disables caching)",
					},
					&cli.IntFlag{
						Name:  "informative",
						Value: 10,
						Usage: "Number of most informative features to report",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for sampling (0 picks one)",
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "Classify every article in a directory",
				ArgsUsage: "EXAMPLE_DIR CLASSIFIER_PATH",
				Action:    classify.ClassifyAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "names",
						Aliases: []string{"m"},
						Usage:   "Also output the article titles",
					},
					&cli.IntFlag{
						Name:  "title-suffix-length",
						Value: defaults.TitleSuffixLength,
						Usage: "Characters to strip from the end of the page title",
					},
				},
			},
			{
				Name:  "runs",
				Usage: "Inspect the run ledger",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent training and classification runs",
						Action: runs.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum runs of each kind",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show the predictions of a classification run",
						ArgsUsage: "RUN_ID",
						Action:    runs.ShowAction,
					},
				},
			},
		},
	}
}
