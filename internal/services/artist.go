package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
)

// ArtistInput is the payload for creating an artist.
type ArtistInput struct {
	Name     string  `json:"name"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"imageUrl"`
}

// ArtistUpdate is a partial artist update. Only keys present in the payload are applied.
type ArtistUpdate struct {
	Name     models.Optional[string] `json:"name"`
	Bio      models.Optional[string] `json:"bio"`
	ImageURL models.Optional[string] `json:"imageUrl"`
}

// ArtistService implements artist use cases.
type ArtistService struct {
	artists ArtistStore
	songs   ArtistSongSyncer
}

// NewArtistService creates an [ArtistService] over artists.
// songs, when non-nil, is told about renames so indexed song documents carry the new name.
func NewArtistService(artists ArtistStore, songs ArtistSongSyncer) *ArtistService {
	return &ArtistService{artists: artists, songs: songs}
}

// Create validates input and stores a new artist
func (s *ArtistService) Create(ctx context.Context, in ArtistInput) (*models.Artist, error) {
	artist := models.NewArtist(strings.TrimSpace(in.Name), blankToNil(in.Bio), blankToNil(in.ImageURL))
	if err := artist.Validate(); err != nil {
		return nil, err
	}

	created, err := s.artists.Create(ctx, artist)
	if err != nil {
		return nil, internal(err, "Failed to create artist")
	}
	return created, nil
}

// Get returns one artist
func (s *ArtistService) Get(ctx context.Context, id int64) (*models.Artist, error) {
	artist, err := s.artists.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("Artist not found")
	} else if err != nil {
		return nil, internal(err, "Failed to get artist")
	}
	return artist, nil
}

// GetAll returns every artist ordered by name
func (s *ArtistService) GetAll(ctx context.Context) ([]*models.Artist, error) {
	artists, err := s.artists.List(ctx)
	if err != nil {
		return nil, internal(err, "Failed to get artists")
	}
	return artists, nil
}

// Update applies a partial update. A null bio or imageUrl clears the field; a null or blank name is rejected.
func (s *ArtistService) Update(ctx context.Context, id int64, in ArtistUpdate) (*models.Artist, error) {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousName := artist.Name()

	if in.Name.Set {
		if !present(in.Name) {
			return nil, shared.Validation("Artist name cannot be empty")
		}
		if utf8.RuneCountInString(strings.TrimSpace(in.Name.Value)) > models.MaxFieldLength {
			return nil, shared.Validation("Artist name must be %d characters or less", models.MaxFieldLength)
		}
		artist.SetName(strings.TrimSpace(in.Name.Value))
	}
	if in.Bio.Set {
		artist.SetBio(blankToNil(in.Bio.Ptr()))
	}
	if in.ImageURL.Set {
		artist.SetImageURL(blankToNil(in.ImageURL.Ptr()))
	}

	updated, err := s.artists.Update(ctx, artist)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("Artist not found")
	} else if err != nil {
		return nil, internal(err, "Failed to update artist")
	}

	if s.songs != nil && updated.Name() != previousName {
		s.songs.SyncArtist(ctx, updated.ID())
	}
	return updated, nil
}

// Delete removes an artist. Fails with [shared.KindConflict] while songs still reference it.
func (s *ArtistService) Delete(ctx context.Context, id int64) error {
	removed, err := s.artists.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrForeignKey):
		return shared.Conflict("Cannot delete artist with existing songs")
	case err != nil:
		return internal(err, "Failed to delete artist")
	case !removed:
		return shared.NotFound("Artist not found")
	}
	return nil
}
