package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/wiki-diseases/models"
	"github.com/google/uuid"
)

// TrainingRun is one recorded train invocation.
type TrainingRun struct {
	RunID          string
	CreatedAt      time.Time
	PositiveDir    string
	NegativeDir    string
	ModelPath      string
	PositiveCount  int
	NegativeCount  int
	TrainFraction  float64
	Accuracy       sql.NullFloat64
	TestCount      int
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// ClassificationRun is one recorded classify invocation.
type ClassificationRun struct {
	RunID         string
	CreatedAt     time.Time
	ExampleDir    string
	ModelPath     string
	DocCount      int
	PositiveCount int
	NegativeCount int
	FailedCount   int
}

// Prediction is a stored per-document outcome.
type Prediction struct {
	Position int
	FilePath string
	Label    string
	Title    string
	Error    string
}

// NewNullFloat64 creates a valid sql.NullFloat64 unless defined is false.
func NewNullFloat64(f float64, defined bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: defined}
}

func newRunID() string {
	return uuid.NewString()
}

// RecordTrainingRun inserts run, filling RunID and CreatedAt when empty.
func (db *DB) RecordTrainingRun(run *TrainingRun) (string, error) {
	if run.RunID == "" {
		run.RunID = newRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO training_runs (run_id, created_at, positive_dir, negative_dir, model_path,
			positive_count, negative_count, train_fraction, accuracy, test_count,
			true_positives, false_positives, true_negatives, false_negatives)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CreatedAt, run.PositiveDir, run.NegativeDir, run.ModelPath,
		run.PositiveCount, run.NegativeCount, run.TrainFraction, run.Accuracy, run.TestCount,
		run.TruePositives, run.FalsePositives, run.TrueNegatives, run.FalseNegatives)
	if err != nil {
		return "", fmt.Errorf("failed to record training run: %w", err)
	}
	return run.RunID, nil
}

// RecordClassificationRun inserts run and one prediction row per result in a
// single transaction. Counts on run are derived from results.
func (db *DB) RecordClassificationRun(run *ClassificationRun, results []models.PredictionResult) (string, error) {
	if run.RunID == "" {
		run.RunID = newRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.DocCount = len(results)
	run.PositiveCount, run.NegativeCount, run.FailedCount = 0, 0, 0
	for _, r := range results {
		switch {
		case !r.OK():
			run.FailedCount++
		case r.Label == models.LabelPositive:
			run.PositiveCount++
		default:
			run.NegativeCount++
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO classification_runs (run_id, created_at, example_dir, model_path,
			doc_count, positive_count, negative_count, failed_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CreatedAt, run.ExampleDir, run.ModelPath,
		run.DocCount, run.PositiveCount, run.NegativeCount, run.FailedCount)
	if err != nil {
		return "", fmt.Errorf("failed to record classification run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO predictions (run_id, position, file_path, label, title, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare prediction insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if _, err := stmt.Exec(run.RunID, i, r.Path, string(r.Label), r.Title, errText); err != nil {
			return "", fmt.Errorf("failed to record prediction for %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit classification run: %w", err)
	}
	return run.RunID, nil
}

// ListTrainingRuns returns the most recent training runs first.
func (db *DB) ListTrainingRuns(limit int) ([]TrainingRun, error) {
	query := `
		SELECT run_id, created_at, positive_dir, negative_dir, model_path,
		       positive_count, negative_count, train_fraction, accuracy, test_count,
		       true_positives, false_positives, true_negatives, false_negatives
		FROM training_runs
		ORDER BY created_at DESC, rowid DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var r TrainingRun
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.PositiveDir, &r.NegativeDir, &r.ModelPath,
			&r.PositiveCount, &r.NegativeCount, &r.TrainFraction, &r.Accuracy, &r.TestCount,
			&r.TruePositives, &r.FalsePositives, &r.TrueNegatives, &r.FalseNegatives); err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListClassificationRuns returns the most recent classification runs first.
func (db *DB) ListClassificationRuns(limit int) ([]ClassificationRun, error) {
	query := `
		SELECT run_id, created_at, example_dir, model_path,
		       doc_count, positive_count, negative_count, failed_count
		FROM classification_runs
		ORDER BY created_at DESC, rowid DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list classification runs: %w", err)
	}
	defer rows.Close()

	var runs []ClassificationRun
	for rows.Next() {
		var r ClassificationRun
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.ExampleDir, &r.ModelPath,
			&r.DocCount, &r.PositiveCount, &r.NegativeCount, &r.FailedCount); err != nil {
			return nil, fmt.Errorf("failed to scan classification run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetPredictions returns the predictions of a classification run in the
// order the documents were classified.
func (db *DB) GetPredictions(runID string) ([]Prediction, error) {
	var exists string
	err := db.QueryRow("SELECT run_id FROM classification_runs WHERE run_id = ?", runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("classification run %s: %w", runID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get classification run: %w", err)
	}

	rows, err := db.Query(`
		SELECT position, file_path, label, title, error
		FROM predictions
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var p Prediction
		var label, title, errText sql.NullString
		if err := rows.Scan(&p.Position, &p.FilePath, &label, &title, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.Label = label.String
		p.Title = title.String
		p.Error = errText.String
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
