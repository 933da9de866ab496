package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/manisai28/vseo/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetLogger replaces the Runner's logger and the session manager's.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.session.SetLogger(logger)
}

// TUI launches the interactive terminal UI for browsing and analyzing videos.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: process engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/vseo-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.seo, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
