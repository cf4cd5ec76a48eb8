package services

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// ArtistStore is the persistence surface [ArtistService] and [SongService] need for artists.
type ArtistStore interface {
	models.Repository[*models.Artist]

	// Exists reports whether an artist with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}

// SongStore is the persistence surface [SongService] needs for songs.
type SongStore interface {
	models.Repository[*models.Song]

	GetWithArtist(ctx context.Context, id int64) (*models.SongDetails, error)
	ListByArtist(ctx context.Context, artistID int64) ([]*models.Song, error)
	ListByGenre(ctx context.Context, genre models.Genre) ([]*models.Song, error)
	Search(ctx context.Context, query string) ([]*models.Song, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Song, error)
	ListDetails(ctx context.Context) ([]*models.SongDetails, error)
}

// UserStore is the persistence surface [UserService] needs for accounts.
type UserStore interface {
	models.Repository[*models.User]

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// SongIndex is an optional full-text mirror of the song catalog.
//
// Implementations must be safe for concurrent use. Failures never fail the catalog write that triggered them.
type SongIndex interface {
	// Upsert adds or replaces the document for a song
	Upsert(ctx context.Context, song *models.SongDetails) error
	// Delete removes the document for a song ID
	Delete(ctx context.Context, id int64) error
	// Search returns matching song IDs in relevance order
	Search(ctx context.Context, query string) ([]int64, error)
}

// ArtistSongSyncer refreshes the indexed songs of one artist, e.g. after a rename.
type ArtistSongSyncer interface {
	SyncArtist(ctx context.Context, artistID int64)
}

// internal wraps err as a [shared.KindInternal] failure unless it already carries a taxonomy kind.
func internal(err error, message string) error {
	var se *shared.Error
	if errors.As(err, &se) {
		return se
	}
	return shared.Internal(err, message)
}

// blankToNil collapses empty or whitespace-only optional text to nil so it is stored as NULL.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// present reports whether an optional text key was sent with a non-blank value.
func present(o models.Optional[string]) bool {
	return o.Valid && strings.TrimSpace(o.Value) != ""
}
