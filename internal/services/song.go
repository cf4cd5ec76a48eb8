package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
)

// SongInput is the payload for creating a song.
type SongInput struct {
	Title    string  `json:"title"`
	ArtistID int64   `json:"artistId"`
	Album    *string `json:"album"`
	Genre    *string `json:"genre"`
}

// SongUpdate is a partial song update. Only keys present in the payload are applied.
type SongUpdate struct {
	Title    models.Optional[string] `json:"title"`
	ArtistID models.Optional[int64]  `json:"artistId"`
	Album    models.Optional[string] `json:"album"`
	Genre    models.Optional[string] `json:"genre"`
}

// SongService implements song use cases and keeps an optional [SongIndex] in sync.
type SongService struct {
	artists ArtistStore
	songs   SongStore
	index   SongIndex
	logger  *log.Logger
}

// NewSongService creates a [SongService]. index may be nil, in which case search runs on the store only.
func NewSongService(artists ArtistStore, songs SongStore, index SongIndex, logger *log.Logger) *SongService {
	if logger == nil {
		logger = log.Default()
	}
	return &SongService{artists: artists, songs: songs, index: index, logger: logger}
}

// Create validates input, checks the artist exists and stores a new song
func (s *SongService) Create(ctx context.Context, in SongInput) (*models.Song, error) {
	song := models.NewSong(strings.TrimSpace(in.Title), in.ArtistID, blankToNil(in.Album), nil)
	if err := song.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireArtist(ctx, in.ArtistID); err != nil {
		return nil, err
	}

	genre, err := parseGenre(in.Genre)
	if err != nil {
		return nil, err
	}
	song.SetGenre(genre)

	created, err := s.songs.Create(ctx, song)
	if err != nil {
		return nil, s.writeError(err, "Failed to create song")
	}

	s.sync(ctx, created.ID())
	return created, nil
}

// Get returns one song
func (s *SongService) Get(ctx context.Context, id int64) (*models.Song, error) {
	song, err := s.songs.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("Song not found")
	} else if err != nil {
		return nil, internal(err, "Failed to fetch song")
	}
	return song, nil
}

// GetDetails returns one song joined with its artist's name
func (s *SongService) GetDetails(ctx context.Context, id int64) (*models.SongDetails, error) {
	details, err := s.songs.GetWithArtist(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("Song not found")
	} else if err != nil {
		return nil, internal(err, "Failed to fetch song details")
	}
	return details, nil
}

// GetAll returns every song ordered by title
func (s *SongService) GetAll(ctx context.Context) ([]*models.Song, error) {
	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, internal(err, "Failed to fetch songs")
	}
	return songs, nil
}

// GetAllDetails returns every song with its artist's name, ordered by artist then title
func (s *SongService) GetAllDetails(ctx context.Context) ([]*models.SongDetails, error) {
	details, err := s.songs.ListDetails(ctx)
	if err != nil {
		return nil, internal(err, "Failed to fetch songs")
	}
	return details, nil
}

// GetByArtist returns an artist's songs. Fails with [shared.KindNotFound] when the artist does not exist.
func (s *SongService) GetByArtist(ctx context.Context, artistID int64) ([]*models.Song, error) {
	if err := s.requireArtist(ctx, artistID); err != nil {
		return nil, err
	}

	songs, err := s.songs.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, internal(err, "Failed to fetch artist songs")
	}
	return songs, nil
}

// GetByGenre returns the songs of one genre
func (s *SongService) GetByGenre(ctx context.Context, genre string) ([]*models.Song, error) {
	g, err := models.ParseGenre(genre)
	if err != nil {
		return nil, err
	}

	songs, err := s.songs.ListByGenre(ctx, g)
	if err != nil {
		return nil, internal(err, "Failed to fetch songs by genre")
	}
	return songs, nil
}

// Search returns songs whose title contains query.
//
// When an index is configured it is asked first and its hits are resolved through the store,
// keeping only titles that contain query. An index failure or an empty result falls back to the store search.
func (s *SongService) Search(ctx context.Context, query string) ([]*models.Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.Validation("Search query is required")
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, query)
		if err == nil {
			songs, err := s.songs.ListByIDs(ctx, ids)
			if err != nil {
				return nil, internal(err, "Failed to search songs")
			}
			if matched := titlesContaining(songs, query); len(matched) > 0 {
				return matched, nil
			}
			s.logger.Debug("search index found no titles, checking store", "query", query)
		} else {
			s.logger.Warn("search index unavailable, falling back to store", "query", query, "error", err)
		}
	}

	songs, err := s.songs.Search(ctx, query)
	if err != nil {
		return nil, internal(err, "Failed to search songs")
	}
	return songs, nil
}

// Update applies a partial update.
// A null album or genre clears the field; a null or blank title or artistId is rejected.
func (s *SongService) Update(ctx context.Context, id int64, in SongUpdate) (*models.Song, error) {
	song, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title.Set && !present(in.Title) {
		return nil, shared.Validation("Song title cannot be empty")
	}
	if in.ArtistID.Set && (!in.ArtistID.Valid || in.ArtistID.Value <= 0) {
		return nil, shared.Validation("Artist ID cannot be empty")
	}

	if in.Title.Set {
		title := strings.TrimSpace(in.Title.Value)
		if utf8.RuneCountInString(title) > models.MaxFieldLength {
			return nil, shared.Validation("Song title must be %d characters or less", models.MaxFieldLength)
		}
		song.SetTitle(title)
	}
	if in.Album.Set {
		album := blankToNil(in.Album.Ptr())
		if album != nil && utf8.RuneCountInString(*album) > models.MaxFieldLength {
			return nil, shared.Validation("Album name must be %d characters or less", models.MaxFieldLength)
		}
		song.SetAlbum(album)
	}

	if in.ArtistID.Set {
		if err := s.requireArtist(ctx, in.ArtistID.Value); err != nil {
			return nil, err
		}
		song.SetArtistID(in.ArtistID.Value)
	}

	if in.Genre.Set {
		genre, err := parseGenre(in.Genre.Ptr())
		if err != nil {
			return nil, err
		}
		song.SetGenre(genre)
	}

	updated, err := s.songs.Update(ctx, song)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, shared.NotFound("Song not found")
	} else if err != nil {
		return nil, s.writeError(err, "Failed to update song")
	}

	s.sync(ctx, updated.ID())
	return updated, nil
}

// Delete removes a song and its index document
func (s *SongService) Delete(ctx context.Context, id int64) error {
	removed, err := s.songs.Delete(ctx, id)
	if err != nil {
		return internal(err, "Failed to delete song")
	}
	if !removed {
		return shared.NotFound("Song not found")
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to remove song from search index", "id", id, "error", err)
		}
	}
	return nil
}

func (s *SongService) requireArtist(ctx context.Context, artistID int64) error {
	exists, err := s.artists.Exists(ctx, artistID)
	if err != nil {
		return internal(err, "Failed to fetch artist")
	}
	if !exists {
		return shared.NotFound("Artist not found")
	}
	return nil
}

// writeError translates store failures on song inserts and updates.
// The artist can vanish between the existence check and the write.
func (s *SongService) writeError(err error, message string) error {
	if errors.Is(err, repositories.ErrForeignKey) {
		return shared.NotFound("Artist not found")
	}
	return internal(err, message)
}

// sync pushes the stored song into the index. Failures are logged only.
func (s *SongService) sync(ctx context.Context, id int64) {
	if s.index == nil {
		return
	}

	details, err := s.songs.GetWithArtist(ctx, id)
	if err != nil {
		s.logger.Warn("failed to load song for search index", "id", id, "error", err)
		return
	}

	if err := s.index.Upsert(ctx, details); err != nil {
		s.logger.Warn("failed to index song", "id", id, "error", err)
	}
}

// SyncArtist re-indexes every song of an artist. Failures are logged only.
func (s *SongService) SyncArtist(ctx context.Context, artistID int64) {
	if s.index == nil {
		return
	}

	songs, err := s.songs.ListByArtist(ctx, artistID)
	if err != nil {
		s.logger.Warn("failed to load artist songs for search index", "artist_id", artistID, "error", err)
		return
	}

	for _, song := range songs {
		s.sync(ctx, song.ID())
	}
}

// parseGenre validates an optional genre. Nil or blank means no genre.
func parseGenre(genre *string) (*models.Genre, error) {
	if blankToNil(genre) == nil {
		return nil, nil
	}

	g, err := models.ParseGenre(*genre)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// titlesContaining keeps the songs whose title contains query, ignoring case.
func titlesContaining(songs []*models.Song, query string) []*models.Song {
	query = strings.ToLower(query)
	matched := make([]*models.Song, 0, len(songs))
	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title()), query) {
			matched = append(matched, song)
		}
	}
	return matched
}
