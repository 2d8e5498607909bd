package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	dbcmd "github.com/dtnitsch/trials-dashboard/internal/db"
	"github.com/dtnitsch/trials-dashboard/internal/generate"
	"github.com/dtnitsch/trials-dashboard/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "ctdash",
		Usage: "Local tooling for the Clinical Trials Dashboard",
		Commands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Validate data files and regenerate data/manifest.json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data-dir",
						Value: "data",
						Usage: "Directory containing the dashboard's JSON data files",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Log errors only",
					},
				},
				Action: generate.ManifestAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the current directory over HTTP for the dashboard",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Value: 8000,
						Usage: "Port to listen on",
					},
					&cli.StringFlag{
						Name:  "data-dir",
						Value: "data",
						Usage: "Directory containing the dashboard's JSON data files",
					},
					&cli.StringFlag{
						Name:  "entry",
						Value: "index.html",
						Usage: "Entry file that must exist before the server starts",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Do not open the dashboard in a browser",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log every request",
					},
				},
				Action: serve.ServeAction,
			},
			{
				Name:  "db",
				Usage: "Inspect manifest-builder run history",
				Subcommands: []*cli.Command{
					{
						Name:  "runs",
						Usage: "List recorded runs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of runs to list",
							},
						},
						Action: dbcmd.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show details for a run (latest when no ID is given)",
						ArgsUsage: "[run-id]",
						Action:    dbcmd.RunAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
