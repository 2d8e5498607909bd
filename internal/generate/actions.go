package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trials-dashboard/models"
	"github.com/dtnitsch/trials-dashboard/pkg/db"
	"github.com/dtnitsch/trials-dashboard/pkg/manifest"
	"github.com/dtnitsch/trials-dashboard/pkg/storage"
)

// ManifestAction validates the data files and, only if every file parses,
// regenerates the manifest. Invalid files abort before anything is written
// so a stale manifest is left untouched.
func ManifestAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config, err := models.LoadConfig(models.DefaultConfigFile)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	dataDir := config.DataDir
	if c.IsSet("data-dir") {
		dataDir = c.String("data-dir")
	}

	s := &storage.Storage{}

	fmt.Println("Validating JSON files...")
	invalid, err := manifest.Validate(dataDir, s)
	if err != nil {
		logger.Error("validation failed", "error", err, "data_dir", dataDir)
		os.Exit(2)
	}

	if len(invalid) > 0 {
		fmt.Println("\nInvalid JSON files found:")
		for _, f := range invalid {
			fmt.Printf("   - %s: %s\n", f.Name, f.Reason)
		}
		fmt.Println("\nFix the invalid JSON files before continuing.")

		recordRun(logger, db.Run{
			DataDir:      dataDir,
			Status:       db.RunStatusInvalid,
			InvalidCount: len(invalid),
			DurationMs:   time.Since(startTime).Milliseconds(),
		}, invalidToFailures(invalid))

		return cli.Exit("", 1)
	}
	fmt.Println("All JSON files are valid")

	fmt.Println("\nGenerating manifest...")
	m, manifestPath, err := manifest.Generate(dataDir, s)
	if err != nil {
		logger.Error("failed to generate manifest", "error", err, "data_dir", dataDir)

		recordRun(logger, db.Run{
			DataDir:    dataDir,
			Status:     db.RunStatusError,
			DurationMs: time.Since(startTime).Milliseconds(),
		}, nil)

		return cli.Exit("", 2)
	}

	printReport(dataDir, manifestPath, m, s)

	recordRun(logger, db.Run{
		DataDir:      dataDir,
		Status:       db.RunStatusSuccess,
		FileCount:    m.TotalFiles,
		DurationMs:   time.Since(startTime).Milliseconds(),
		ManifestPath: manifestPath,
	}, nil)

	fmt.Println("\nDone! Your dashboard is ready to use.")
	return nil
}

// printReport prints the human-readable generation summary to stdout.
func printReport(dataDir, manifestPath string, m *manifest.Manifest, s *storage.Storage) {
	scanned := dataDir
	if abs, err := filepath.Abs(dataDir); err == nil {
		scanned = abs
	}

	fmt.Printf("Scanned directory: %s\n", scanned)
	fmt.Printf("Found %d JSON files:\n", m.TotalFiles)
	for i, name := range m.Files {
		fmt.Printf("   %2d. %s\n", i+1, name)
	}

	if m.TotalFiles == 0 {
		fmt.Printf("Warning: no JSON files found in %s/\n", dataDir)
		fmt.Println("   Add your JSON files to the data folder and run this command again.")
		return
	}

	fmt.Printf("\nCreated: %s", manifestPath)
	if stats, err := s.GetFileStats(manifestPath); err == nil {
		fmt.Printf(" (%d bytes)", stats.SizeBytes)
	}
	fmt.Println()
	fmt.Println("You can now start your dashboard server!")
}

// recordRun stores the run in the history database. History is best-effort:
// an unavailable database warns and never changes the command's outcome.
func recordRun(logger *slog.Logger, run db.Run, failures []db.Failure) {
	database, err := db.Open()
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return
	}
	defer database.Close()

	if _, err := database.RecordRun(run, failures); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

func invalidToFailures(invalid []manifest.InvalidFile) []db.Failure {
	failures := make([]db.Failure, len(invalid))
	for i, f := range invalid {
		failures[i] = db.Failure{Filename: f.Name, Reason: f.Reason}
	}
	return failures
}
