package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/models"
)

// Catalog supplies every song with its artist's name.
//
// Implemented by services.SongService.
type Catalog interface {
	GetAllDetails(ctx context.Context) ([]*models.SongDetails, error)
}

// Indexer receives song documents. Implementations must be safe for concurrent use.
type Indexer interface {
	Upsert(ctx context.Context, song *models.SongDetails) error
}

// Resetter is implemented by indexers that can drop and recreate their collection.
type Resetter interface {
	Recreate(ctx context.Context) error
}

// Reindexer pushes the whole catalog into a search index.
type Reindexer struct {
	catalog Catalog
	index   Indexer
	logger  *log.Logger
}

// NewReindexer creates a [Reindexer] reading from catalog and writing to index
func NewReindexer(catalog Catalog, index Indexer, logger *log.Logger) *Reindexer {
	if logger == nil {
		logger = log.Default()
	}
	return &Reindexer{catalog: catalog, index: index, logger: logger}
}

// sendProgress sends an update without blocking; updates are dropped when nobody is listening.
func (r *Reindexer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
