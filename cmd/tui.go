package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskx/internal/shared"
	"github.com/desertthunder/taskx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive two-screen task UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	store, err := r.session()
	if err != nil {
		return err
	}

	app := ui.NewApp(ctx, ui.AppOpts{
		Gateway: r.gateway(),
		Session: store,
		Logger:  fileLogger,
		Start:   cmd.String("start"),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
