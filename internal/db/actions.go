package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/trials-dashboard/pkg/db"
)

// RunsAction lists recorded manifest-builder runs.
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-10s %-8s %-8s %-10s %-30s\n",
		"ID", "Started", "Status", "Files", "Invalid", "Duration", "Manifest")
	fmt.Println(strings.Repeat("-", 100))

	// Print each run
	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-10s %-8d %-8d %-10s %-30s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			r.FileCount,
			r.InvalidCount,
			fmt.Sprintf("%dms", r.DurationMs),
			r.ManifestPath,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'ctdash db run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run (latest when no ID is given).
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	failures, err := database.GetRunFailures(runID)
	if err != nil {
		return fmt.Errorf("failed to get run failures: %w", err)
	}

	// Print run details
	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Data dir:   %s\n", run.DataDir)
	fmt.Printf("Status:     %s\n", run.Status)
	fmt.Printf("Files:      %d total (%d invalid)\n", run.FileCount, run.InvalidCount)
	fmt.Printf("Duration:   %dms\n", run.DurationMs)
	if run.ManifestPath != "" {
		fmt.Printf("Manifest:   %s\n", run.ManifestPath)
	}

	if len(failures) > 0 {
		fmt.Printf("\nValidation failures (%d):\n", len(failures))
		fmt.Println(strings.Repeat("-", 60))
		for i, f := range failures {
			fmt.Printf("%2d. %s\n", i+1, f.Filename)
			fmt.Printf("    Error: %s\n", f.Reason)
		}
	}

	return nil
}
