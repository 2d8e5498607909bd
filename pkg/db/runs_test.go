package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestRecordRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.RecordRun(Run{
		DataDir:      "data",
		Status:       RunStatusSuccess,
		FileCount:    3,
		DurationMs:   12,
		ManifestPath: "data/manifest.json",
	}, nil)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("RecordRun() returned 0 run ID")
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}

	if run.Status != RunStatusSuccess {
		t.Errorf("run.Status = %q, want %q", run.Status, RunStatusSuccess)
	}
	if run.FileCount != 3 {
		t.Errorf("run.FileCount = %d, want 3", run.FileCount)
	}
	if run.ManifestPath != "data/manifest.json" {
		t.Errorf("run.ManifestPath = %q, want data/manifest.json", run.ManifestPath)
	}
}

func TestRecordRun_WithFailures(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.RecordRun(Run{
		DataDir:      "data",
		Status:       RunStatusInvalid,
		InvalidCount: 2,
	}, []Failure{
		{Filename: "trial_b.json", Reason: "invalid character 'b'"},
		{Filename: "trial_c.json", Reason: "unexpected end of JSON input"},
	})
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	failures, err := db.GetRunFailures(runID)
	if err != nil {
		t.Fatalf("GetRunFailures() error = %v", err)
	}

	if len(failures) != 2 {
		t.Fatalf("GetRunFailures() returned %d failures, want 2", len(failures))
	}
	if failures[0].Filename != "trial_b.json" {
		t.Errorf("failures[0].Filename = %q, want trial_b.json", failures[0].Filename)
	}
	if failures[1].Reason != "unexpected end of JSON input" {
		t.Errorf("failures[1].Reason = %q", failures[1].Reason)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 3; i++ {
		if _, err := db.RecordRun(Run{DataDir: "data", Status: RunStatusSuccess, FileCount: i}, nil); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("ListRuns(2) returned %d runs, want 2", len(runs))
	}
	if runs[0].RunID <= runs[1].RunID {
		t.Errorf("runs not ordered newest first: %d then %d", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].FileCount != 2 {
		t.Errorf("latest run FileCount = %d, want 2", runs[0].FileCount)
	}
}

func TestGetLatestRunID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetLatestRunID(); err == nil {
		t.Error("GetLatestRunID() on empty db should error")
	}

	runID, err := db.RecordRun(Run{DataDir: "data", Status: RunStatusSuccess}, nil)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	latest, err := db.GetLatestRunID()
	if err != nil {
		t.Fatalf("GetLatestRunID() error = %v", err)
	}
	if latest != runID {
		t.Errorf("GetLatestRunID() = %d, want %d", latest, runID)
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRunByID(999); err == nil {
		t.Error("GetRunByID(999) should error for a missing run")
	}
}
