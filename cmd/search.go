package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/tasks"
	"github.com/urfave/cli/v3"
)

type reindexSummary struct {
	Total    int             `json:"total"`
	Indexed  int             `json:"indexed"`
	Failed   int             `json:"failed"`
	Failures []failedSummary `json:"failures"`
	Duration string          `json:"duration"`
}

type failedSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// SearchReindex pushes every song into the Typesense collection.
func (r *Runner) SearchReindex(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !r.config.Search.Enabled {
		return fmt.Errorf("%w: search is disabled, set [search] enabled = true", shared.ErrServiceUnavailable)
	}

	opts, err := r.reindexOpts(cmd.Int("workers"), cmd.Float("rate"), cmd.Bool("fresh"))
	if err != nil {
		return err
	}

	store, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	index, err := r.openIndex(ctx)
	if err != nil {
		return err
	}

	_, songs := r.catalog(store, nil)
	reindexer := tasks.NewReindexer(songs, index, shared.WithLogger(r.logger, "task", "reindex"))
	return r.reindex(ctx, reindexer, opts, cmd.Bool("json"))
}

// reindexOpts merges flag values over the [search] config. Zero flags keep the configured value.
func (r *Runner) reindexOpts(workers int, rateLimit float64, fresh bool) (tasks.ReindexOpts, error) {
	if workers < 0 {
		return tasks.ReindexOpts{}, fmt.Errorf("%w: --workers must not be negative", shared.ErrInvalidArgument)
	}
	if rateLimit < 0 {
		return tasks.ReindexOpts{}, fmt.Errorf("%w: --rate must not be negative", shared.ErrInvalidArgument)
	}
	if workers == 0 {
		workers = r.config.Search.Workers
	}
	if rateLimit == 0 {
		rateLimit = r.config.Search.RateLimit
	}
	return tasks.ReindexOpts{NumWorkers: workers, RateLimit: rateLimit, Fresh: fresh}, nil
}

// reindex runs reindexer while streaming its progress lines, then prints a summary.
//
// An interrupted run still reports what was indexed before returning the error.
func (r *Runner) reindex(ctx context.Context, reindexer *tasks.Reindexer, opts tasks.ReindexOpts, asJSON bool) error {
	progress := make(chan tasks.ProgressUpdate, 64)
	printed := make(chan struct{})

	go func() {
		defer close(printed)
		for update := range progress {
			if asJSON || update.Phase == tasks.Complete {
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := reindexer.Run(ctx, progress, opts)
	close(progress)
	<-printed

	if result == nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	summary := reindexSummary{
		Total:    result.Total,
		Indexed:  result.Indexed,
		Failed:   result.Failed,
		Failures: make([]failedSummary, 0, len(result.Failures)),
		Duration: result.Duration.String(),
	}
	for _, f := range result.Failures {
		summary.Failures = append(summary.Failures, failedSummary{ID: f.ID, Title: f.Title, Error: f.Err.Error()})
	}

	if asJSON {
		if werr := r.writeJSON(summary, true); werr != nil {
			return werr
		}
	} else {
		r.writePlain("\n")
		r.writePlainHeader("Reindex Summary")
		r.writePlain("Indexed: %d/%d\n", summary.Indexed, summary.Total)
		r.writePlain("Failed:  %d\n", summary.Failed)
		r.writePlain("Took:    %s\n", summary.Duration)
		for _, f := range summary.Failures {
			r.writePlain("  • %s (#%d): %s\n", f.Title, f.ID, f.Error)
		}
	}

	r.logger.Info("reindex finished", "indexed", result.Indexed, "failed", result.Failed, "duration", result.Duration)
	return err
}
