package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Run statuses recorded for a manifest-builder invocation.
const (
	RunStatusSuccess = "success"
	RunStatusInvalid = "invalid"
	RunStatusError   = "error"
)

// Run records the outcome of one manifest-builder invocation.
type Run struct {
	RunID        int64
	StartedAt    time.Time
	DataDir      string
	Status       string
	FileCount    int
	InvalidCount int
	DurationMs   int64
	ManifestPath string
}

// Failure records one file that failed validation during a run.
type Failure struct {
	RunID    int64
	Filename string
	Reason   string
}

// RecordRun inserts a run and its validation failures in a single transaction.
// Returns the new run ID.
func (db *DB) RecordRun(run Run, failures []Failure) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO runs (data_dir, status, file_count, invalid_count, duration_ms, manifest_path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.DataDir, run.Status, run.FileCount, run.InvalidCount, run.DurationMs, run.ManifestPath)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, f := range failures {
		if _, err := tx.Exec(`
			INSERT INTO run_failures (run_id, filename, reason)
			VALUES (?, ?, ?)`,
			runID, f.Filename, f.Reason); err != nil {
			return 0, fmt.Errorf("failed to insert run failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, started_at, data_dir, status, file_count, invalid_count, duration_ms, COALESCE(manifest_path, '')
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.DataDir, &r.Status,
			&r.FileCount, &r.InvalidCount, &r.DurationMs, &r.ManifestPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRunByID returns a single run by its ID.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, started_at, data_dir, status, file_count, invalid_count, duration_ms, COALESCE(manifest_path, '')
		FROM runs
		WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.StartedAt, &r.DataDir, &r.Status,
			&r.FileCount, &r.InvalidCount, &r.DurationMs, &r.ManifestPath)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &r, nil
}

// GetRunFailures returns the validation failures recorded for a run.
func (db *DB) GetRunFailures(runID int64) ([]Failure, error) {
	rows, err := db.Query(`
		SELECT run_id, filename, reason
		FROM run_failures
		WHERE run_id = ?
		ORDER BY failure_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.RunID, &f.Filename, &f.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan run failure: %w", err)
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

// GetLatestRunID returns the most recent run's ID.
func (db *DB) GetLatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded yet")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}

	return runID, nil
}
