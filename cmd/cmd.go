// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// songCommand handles song library operations
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Manage the song library",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song to the library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist or composer",
					},
					&cli.StringFlag{
						Name:    "folder",
						Aliases: []string{"f"},
						Usage:   "Folder name to file the song under",
					},
					&cli.IntFlag{
						Name:  "bpm",
						Usage: "Saved metronome tempo",
					},
					&cli.IntFlag{
						Name:  "time-signature",
						Usage: "Beats per bar (2, 3, 4, or 6)",
					},
				},
				Action: r.SongAdd,
			},
			{
				Name:  "list",
				Usage: "List songs in the library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "folder",
						Aliases: []string{"f"},
						Usage:   "Only songs in this folder",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongList,
			},
			{
				Name:  "tempo",
				Usage: "Save a metronome tempo for a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "bpm",
						Usage:    "Tempo in beats per minute",
						Required: true,
					},
				},
				Action: r.SongTempo,
			},
			{
				Name:  "notes",
				Usage: "Replace the notes on a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
					&cli.StringArg{Name: "notes"},
				},
				Action: r.SongNotes,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from the library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Action: r.SongRemove,
			},
		},
	}
}

// folderCommand handles folder operations
func folderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Organize songs into folders",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a folder",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.FolderAdd,
			},
			{
				Name:   "list",
				Usage:  "List folders",
				Action: r.FolderList,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
			},
			{
				Name:  "remove",
				Usage: "Remove a folder, songs stay in the library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.FolderRemove,
			},
		},
	}
}

// sessionsCommand handles practice history operations
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Browse and export practice history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent practice sessions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of sessions to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "song",
						Usage: "Only sessions for this song title",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionsList,
			},
			{
				Name:  "log",
				Usage: "Log a session practiced away from the computer",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "minutes",
						Aliases:  []string{"m"},
						Usage:    "Practiced minutes",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "song",
						Usage: "Song title the session was spent on",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Session notes",
					},
				},
				Action: r.SessionsLog,
			},
			{
				Name:  "export",
				Usage: "Export practice history to files, one per month",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: json, csv, markdown, txt",
						Value: "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "months",
						Usage: "How many months back to export",
						Value: 12,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export writers",
					},
				},
				Action: r.SessionsExport,
			},
		},
	}
}

// statsCommand prints totals, streaks, and goal progress
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show practice totals, streak, and goal progress",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

// goalCommand handles practice goals
func goalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "goal",
		Usage: "Set and track practice goals",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set a daily or weekly minutes goal",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "minutes",
						Aliases:  []string{"m"},
						Usage:    "Target minutes for the period",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "period",
						Usage: "Goal period: day or week",
						Value: "week",
					},
				},
				Action: r.GoalSet,
			},
			{
				Name:   "status",
				Usage:  "Show progress against the active goal",
				Action: r.GoalStatus,
			},
			{
				Name:  "clear",
				Usage: "Deactivate the active goal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Goal period: day or week",
						Value: "week",
					},
				},
				Action: r.GoalClear,
			},
		},
	}
}

// metronomeCommand runs the metronome outside a practice session
func metronomeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "metronome",
		Aliases: []string{"click"},
		Usage:   "Run the metronome on its own",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "bpm",
				Usage: "Tempo in beats per minute",
			},
			&cli.IntFlag{
				Name:  "time-signature",
				Usage: "Beats per bar (2, 3, 4, or 6)",
			},
			&cli.StringFlag{
				Name:  "sound",
				Usage: "Click timbre: click, beep, wood, digital",
			},
			&cli.BoolFlag{
				Name:  "no-accent",
				Usage: "Disable the downbeat accent",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "sound",
				Usage: "Preview a click timbre",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.MetronomeSound,
			},
		},
		Action: r.MetronomeRun,
	}
}

// practiceCommand launches the interactive practice screen
func practiceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "practice",
		Usage: "Start a practice session",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "song"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "bpm",
				Usage: "Metronome tempo, defaults to the song's saved tempo",
			},
		},
		Action: r.Practice,
	}
}
