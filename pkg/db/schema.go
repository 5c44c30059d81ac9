package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- One row per train invocation
CREATE TABLE IF NOT EXISTS training_runs (
    run_id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    positive_dir TEXT NOT NULL,
    negative_dir TEXT NOT NULL,
    model_path TEXT NOT NULL,
    positive_count INTEGER NOT NULL,
    negative_count INTEGER NOT NULL,
    train_fraction REAL NOT NULL,

    -- NULL when nothing was held out for testing
    accuracy REAL,
    test_count INTEGER DEFAULT 0,
    true_positives INTEGER DEFAULT 0,
    false_positives INTEGER DEFAULT 0,
    true_negatives INTEGER DEFAULT 0,
    false_negatives INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_training_runs_created ON training_runs(created_at);

-- One row per classify invocation
CREATE TABLE IF NOT EXISTS classification_runs (
    run_id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    example_dir TEXT NOT NULL,
    model_path TEXT NOT NULL,
    doc_count INTEGER NOT NULL,
    positive_count INTEGER DEFAULT 0,
    negative_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_classification_runs_created ON classification_runs(created_at);

-- Per-document outcome of a classification run
CREATE TABLE IF NOT EXISTS predictions (
    prediction_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    file_path TEXT NOT NULL,
    label TEXT,
    title TEXT,
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES classification_runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions(run_id);
CREATE INDEX IF NOT EXISTS idx_predictions_label ON predictions(label);
`
