package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trials-dashboard/models"
	"github.com/dtnitsch/trials-dashboard/pkg/server"
	"github.com/dtnitsch/trials-dashboard/pkg/storage"
)

// ServeAction runs the preflight checks and starts the static file server
// for the current working directory. Preflight failures abort before the
// port is bound.
func ServeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	config, err := models.LoadConfig(models.DefaultConfigFile)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	port := config.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}
	dataDir := config.DataDir
	if c.IsSet("data-dir") {
		dataDir = c.String("data-dir")
	}
	entryFile := config.EntryFile
	if c.IsSet("entry") {
		entryFile = c.String("entry")
	}
	openBrowser := config.OpenBrowser && !c.Bool("no-browser")

	s := &storage.Storage{}

	info, err := server.Preflight(entryFile, dataDir, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintln(os.Stderr, "Run this command from the dashboard folder (the one containing index.html).")
		return cli.Exit("", 1)
	}

	if len(info.DataFiles) == 0 {
		fmt.Printf("Warning: no JSON files found in %s/ directory\n", dataDir)
		fmt.Printf("Add your JSON files to the %s folder\n", dataDir)
	} else {
		fmt.Printf("Found %d JSON files:\n", len(info.DataFiles))
		for _, name := range info.DataFiles {
			fmt.Printf("   - %s\n", name)
		}
	}

	srv := server.New(port, openBrowser, logger)

	// Bind before announcing anything so a failed bind never prints a banner
	if err := srv.Listen(); err != nil {
		logger.Error("server failed", "error", err, "port", port)
		return cli.Exit("", 1)
	}
	printBanner(srv, info)

	// Signal-based context for graceful shutdown
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Serve(sigctx); err != nil {
		logger.Error("server failed", "error", err, "port", port)
		return cli.Exit("", 1)
	}

	fmt.Println("\nServer stopped")
	return nil
}

func printBanner(srv *server.Server, info *server.PreflightInfo) {
	fmt.Println("\nClinical Trials Dashboard Server Started!")
	if info.Title != "" {
		fmt.Printf("Dashboard:    %s\n", info.Title)
	}
	if cwd, err := os.Getwd(); err == nil {
		fmt.Printf("Serving from: %s\n", cwd)
	}
	fmt.Printf("Open your browser to: %s\n", srv.URL())
	fmt.Println("Press Ctrl+C to stop the server")
	fmt.Println()
}
