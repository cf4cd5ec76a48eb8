package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/tasks"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
//
// The reindex action is offered only when the search index is enabled and reachable.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/songbook-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	artists, songs := r.catalog(store, nil)

	var reindexer ui.Reindexer
	index, err := r.openIndex(ctx)
	switch {
	case err != nil:
		r.logger.Warn("search index unavailable, reindex disabled", "error", err)
	case index != nil:
		reindexer = tasks.NewReindexer(songs, index, shared.WithLogger(r.logger, "task", "reindex"))
	}

	model := ui.NewModel(ctx, artists, songs, reindexer)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
