package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/tandemreader/tandem/internal/tasks"
	"github.com/tandemreader/tandem/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal reader.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tandem-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := tasks.Options{
		Sequence: true,
		Resume:   cmd.Bool("resume"),
		Rate:     cmd.Float("rate"),
	}

	model := ui.NewModel(ctx, fileLogger, r.library, repo, r.config, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
