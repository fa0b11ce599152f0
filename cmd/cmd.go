// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that reads configuration.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml template to the given path",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// libraryCommand handles content library operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Content library operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List chunks in the library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "plan",
				Usage: "Show the segment plan for a chunk",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "chunk",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LibraryPlan,
			},
			{
				Name:  "export",
				Usage: "Export a chunk's segment plan to a file",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "chunk",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base name, directory, or file depending on format)",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// playCommand drives a playback session from the terminal
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a chunk with alternating dual-track narration",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "chunk",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "single",
				Usage: "Stay in single-track mode instead of alternating",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume from the stored bookmark",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Play-head speed multiplier",
				Value: 1.0,
			},
		},
		Action: r.PlayRun,
	}
}

// resumeCommand restarts playback from the stored bookmark
func resumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resume",
		Usage: "Resume a chunk from its stored bookmark",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "chunk",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "single",
				Usage: "Stay in single-track mode instead of alternating",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Play-head speed multiplier",
				Value: 1.0,
			},
		},
		Action: r.ResumeRun,
	}
}

// bookmarkCommand manages stored playback positions
func bookmarkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "bookmark",
		Aliases: []string{"bm"},
		Usage:   "Manage stored playback positions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List bookmarks, optionally scoped to a chunk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "chunk",
						Usage: "Only show bookmarks for this chunk",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.BookmarkList,
			},
			{
				Name:  "delete",
				Usage: "Delete a bookmark by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.BookmarkDelete,
			},
		},
	}
}

// serveCommand runs a playback session with the debug HTTP server attached
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Play a chunk while serving read-only diagnostics over HTTP",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "chunk",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "single",
				Usage: "Stay in single-track mode instead of alternating",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume from the stored bookmark",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Play-head speed multiplier",
				Value: 1.0,
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to the configured host:port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive reading.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal reader",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume chunks from stored bookmarks",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Play-head speed multiplier",
				Value: 1.0,
			},
		},
		Action: r.TUI,
	}
}
