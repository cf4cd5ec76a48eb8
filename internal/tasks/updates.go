package tasks

import (
	"fmt"

	"github.com/desertthunder/songbook/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalog Phase = iota
	PrepareIndex
	IndexSongs
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case PrepareIndex:
		return "prepare_index"
	case IndexSongs:
		return "index_songs"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchCatalogUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    0,
		Total:   1,
		Message: "Loading songs from the catalog...",
	}
}

func foundCatalogUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d songs", total),
		Data:    total,
	}
}

func prepareIndexUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareIndex,
		Step:    0,
		Total:   1,
		Message: "Recreating search collection...",
	}
}

func indexedSongUpdate(step, total int, song *models.SongDetails) ProgressUpdate {
	return ProgressUpdate{
		Phase:   IndexSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, song.ArtistName(), song.Title()),
	}
}

func failedSongUpdate(step, total int, song *models.SongDetails, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   IndexSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, song.ArtistName(), song.Title(), err),
	}
}

func completeUpdate(result *ReindexResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Indexed %d of %d songs (%d failed)", result.Indexed, result.Total, result.Failed),
		Data:    result,
	}
}
