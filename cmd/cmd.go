// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides [server] host and port (e.g. :8080)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles database and configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml template to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// exportCommand writes the catalog to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export every song with its artist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (csv, md, txt, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, \"-\" for stdout (default: catalog_export_<unix>.<ext>)",
			},
		},
		Action: r.Export,
	}
}

// searchCommand manages the Typesense song index
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search index operations",
		Commands: []*cli.Command{
			{
				Name:  "reindex",
				Usage: "Push every song into the search index",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent index workers, overrides [search] workers (max 10)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Documents per second, overrides [search] rate_limit",
					},
					&cli.BoolFlag{
						Name:  "fresh",
						Usage: "Drop and recreate the collection first",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				},
				Action: r.SearchReindex,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the catalog.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive catalog browser",
		Action:  r.TUI,
	}
}
