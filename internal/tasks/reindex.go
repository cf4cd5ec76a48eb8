package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 10.0
)

// ReindexOpts contains configuration for a full reindex.
type ReindexOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Documents per second (default: 10)
	Fresh      bool    // Drop and recreate the collection first, when the index supports it
}

// SongFailure records one song that could not be indexed.
type SongFailure struct {
	ID    int64
	Title string
	Err   error
}

// ReindexResult summarizes a reindex run.
type ReindexResult struct {
	Total    int
	Indexed  int
	Failed   int
	Failures []SongFailure
	Duration time.Duration
}

type indexJob struct {
	song *models.SongDetails
}

type indexResult struct {
	song *models.SongDetails
	err  error
}

// Run indexes every song in the catalog with a rate-limited worker pool.
//
// Individual failures are collected in the result rather than aborting the run.
// Cancelling ctx stops dispatching new songs; the partial result is returned with the context error.
func (r *Reindexer) Run(ctx context.Context, prog chan<- ProgressUpdate, opts ReindexOpts) (*ReindexResult, error) {
	if r.index == nil {
		return nil, fmt.Errorf("%w: search index not configured", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	start := time.Now()

	r.sendProgress(prog, fetchCatalogUpdate())
	songs, err := r.catalog.GetAllDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	r.sendProgress(prog, foundCatalogUpdate(len(songs)))

	if opts.Fresh {
		if resetter, ok := r.index.(Resetter); ok {
			r.sendProgress(prog, prepareIndexUpdate())
			if err := resetter.Recreate(ctx); err != nil {
				return nil, fmt.Errorf("failed to recreate index: %w", err)
			}
		}
	}

	result := &ReindexResult{
		Total:    len(songs),
		Failures: []SongFailure{},
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan indexJob, len(songs))
	results := make(chan indexResult, len(songs))

	dispatchErr := make(chan error, 1)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go r.indexWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, song := range songs {
			if err := limiter.Wait(ctx); err != nil {
				dispatchErr <- err
				return
			}
			jobs <- indexJob{song: song}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.Failed++
			result.Failures = append(result.Failures, SongFailure{ID: res.song.ID(), Title: res.song.Title(), Err: res.err})
			r.logger.Warn("failed to index song", "id", res.song.ID(), "error", res.err)
			r.sendProgress(prog, failedSongUpdate(completed, len(songs), res.song, res.err))
			continue
		}
		result.Indexed++
		r.sendProgress(prog, indexedSongUpdate(completed, len(songs), res.song))
	}

	result.Duration = time.Since(start)
	r.sendProgress(prog, completeUpdate(result))

	select {
	case err := <-dispatchErr:
		return result, fmt.Errorf("reindex interrupted: %w", err)
	default:
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("reindex interrupted: %w", err)
	}
	return result, nil
}

// indexWorker upserts songs from the jobs channel until it is closed or ctx is done.
func (r *Reindexer) indexWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan indexJob, results chan<- indexResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- indexResult{song: job.song, err: r.index.Upsert(ctx, job.song)}
	}
}
