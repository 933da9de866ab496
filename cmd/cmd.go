// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config.toml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account session",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password (6 characters minimum)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "confirm",
						Usage: "Password confirmation",
					},
				},
				Action: r.AuthSignup,
			},
			{
				Name:  "login",
				Usage: "Sign in and persist the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
			{
				Name:  "profile",
				Usage: "Update account profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "username",
						Usage: "New username",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "New email",
					},
				},
				Action: r.AuthProfile,
			},
		},
	}
}

// videoCommand handles the upload and analysis pipeline
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Upload and analyze videos",
		Commands: []*cli.Command{
			{
				Name:  "upload",
				Usage: "Upload a video file and run the analysis pipeline",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Video title (defaults to the filename)",
					},
					&cli.BoolFlag{
						Name:  "no-process",
						Usage: "Upload only, skip the analysis pipeline",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.VideoUpload,
			},
			{
				Name:  "process",
				Usage: "Run the analysis pipeline on an uploaded video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.VideoProcess,
			},
			{
				Name:  "history",
				Usage: "List previously uploaded videos",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read from the local cache instead of the backend",
					},
				},
				Action: r.VideoHistory,
			},
			{
				Name:  "show",
				Usage: "Show one video's analysis detail",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.VideoShow,
			},
		},
	}
}

// youtubeCommand handles the YouTube connection and publishing
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "YouTube connection and publishing",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Authorize YouTube access via the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "direct",
						Usage: "Exchange the OAuth code locally using [google] credentials",
					},
				},
				Action: r.YouTubeConnect,
			},
			{
				Name:   "status",
				Usage:  "Check whether a YouTube account is connected",
				Action: r.YouTubeStatus,
			},
			{
				Name:  "publish",
				Usage: "Publish a processed video with its generated metadata",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Override the video title",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.YouTubePublish,
			},
		},
	}
}

// resultsCommand handles result viewing and export
func resultsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "View and export analysis results",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show keywords and rankings for a video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ResultsShow,
			},
			{
				Name:  "export",
				Usage: "Export keywords and rankings to a file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to seo_keywords_{id}.csv)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, txt, json",
						Value: "csv",
					},
				},
				Action: r.ResultsExport,
			},
		},
	}
}

// cacheCommand handles the local cache database
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local analysis cache",
		Commands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Initialize the cache database and run migrations",
				Action: r.CacheSetup,
			},
			{
				Name:   "sync",
				Usage:  "Pull the account history into the local cache",
				Action: r.CacheSync,
			},
			{
				Name:   "refresh",
				Usage:  "Re-fetch rankings for every cached video",
				Action: r.CacheRefresh,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached rows",
				Action: r.CacheClear,
			},
		},
	}
}

// notifyCommand lists account notifications
func notifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"notify"},
		Usage:   "List account notifications",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of notifications to return",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "skip",
				Usage: "Number of notifications to skip",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Notifications,
	}
}

// tuiCommand returns the top-level TUI command for interactive analysis.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and analyzing videos",
		Action:  r.TUI,
	}
}
