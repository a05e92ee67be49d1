// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommands are the identity commands: login, logout, whoami and status.
func authCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "Log in by email, creating the user after confirmation",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "email"},
			},
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Create the user without asking when it does not exist",
				},
				&cli.StringFlag{
					Name:  "name",
					Usage: "Display name sent when the user is created",
				},
			},
			Action: r.Login,
		},
		{
			Name:   "logout",
			Usage:  "Forget the current user",
			Action: r.Logout,
		},
		{
			Name:  "whoami",
			Usage: "Show the current user",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Output raw JSON",
				},
			},
			Action: r.Whoami,
		},
		{
			Name:   "status",
			Usage:  "Check backend health (calls /health)",
			Action: r.Status,
		},
	}
}

// tasksCommand handles task operations for the current user.
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"task", "t"},
		Usage:   "Manage the current user's tasks",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tasks, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pending",
						Usage: "Only tasks not yet completed",
					},
					&cli.BoolFlag{
						Name:  "completed",
						Usage: "Only completed tasks",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TasksList,
			},
			{
				Name:  "add",
				Usage: "Create a task",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Task description",
					},
				},
				Action: r.TasksAdd,
			},
			{
				Name:  "toggle",
				Usage: "Flip a task between pending and completed",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TasksToggle,
			},
			{
				Name:  "edit",
				Usage: "Change a task's title or description",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New description",
					},
				},
				Action: r.TasksEdit,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete a task after confirmation",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Delete without asking",
					},
				},
				Action: r.TasksRemove,
			},
			{
				Name:  "export",
				Usage: "Export tasks to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, md, txt or json",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: tasks.<format>, - for stdout)",
					},
				},
				Action: r.TasksExport,
			},
		},
	}
}

// setupCommand initializes config and the client database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage:  "Write the file named by --config and initialize the client database",
		Action: r.Setup,
	}
}

// devServerCommand serves the reference backend.
func devServerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev-server",
		Usage: "Run the reference task backend on SQLite",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "SQLite database path (default from config)",
			},
		},
		Action: r.DevServer,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive task UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Usage: "Initial location (login or tasks)",
				Value: "/tasks",
			},
		},
		Action: r.TUI,
	}
}
