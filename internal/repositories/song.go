package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/songbook/internal/models"
)

var _ models.Repository[*models.Song] = (*SongRepository)(nil)

const songColumns = "s.id, s.title, s.artist_id, s.album, s.genre, s.created_at, s.updated_at"

// SongRepository implements [models.Repository] for [models.Song] persistence.
type SongRepository struct {
	store *Store
}

// NewSongRepository creates a new [SongRepository] backed by store
func NewSongRepository(store *Store) *SongRepository {
	return &SongRepository{store: store}
}

// Create inserts a new song and returns it re-read from the database.
// Returns [ErrForeignKey] when the artist does not exist.
func (r *SongRepository) Create(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO songs (title, artist_id, album, genre, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	id, err := r.store.Insert(ctx, query, song.Title(), song.ArtistID(), song.Album(), song.Genre(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert song: %w", err)
	}

	created, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: song %d", ErrMissingAfterWrite, id)
	}
	return created, err
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id int64) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs s WHERE s.id = ?`

	song, err := scanSong(r.store.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "song", id)
	}
	return song, nil
}

// GetWithArtist retrieves a song joined with its artist's name
func (r *SongRepository) GetWithArtist(ctx context.Context, id int64) (*models.SongDetails, error) {
	query := `
		SELECT ` + songColumns + `, a.name
		FROM songs s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.id = ?
	`

	details, err := scanSongDetails(r.store.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "song", id)
	}
	return details, nil
}

// Update writes all mutable fields, refreshes updated_at and returns the stored row.
// Returns [ErrNotFound] when no row matched and [ErrForeignKey] when the artist does not exist.
func (r *SongRepository) Update(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `UPDATE songs SET title = ?, artist_id = ?, album = ?, genre = ?, updated_at = ? WHERE id = ?`

	rows, err := r.store.Exec(ctx, query,
		song.Title(),
		song.ArtistID(),
		song.Album(),
		song.Genre(),
		time.Now().UTC(),
		song.ID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update song: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: song %d", ErrNotFound, song.ID())
	}

	return r.Get(ctx, song.ID())
}

// Delete removes a song and reports whether a row was removed
func (r *SongRepository) Delete(ctx context.Context, id int64) (bool, error) {
	rows, err := r.store.Exec(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete song: %w", err)
	}
	return rows > 0, nil
}

// List retrieves all songs ordered by title
func (r *SongRepository) List(ctx context.Context) ([]*models.Song, error) {
	return r.list(ctx, `SELECT `+songColumns+` FROM songs s ORDER BY s.title ASC, s.id ASC`)
}

// ListByArtist retrieves an artist's songs ordered by title
func (r *SongRepository) ListByArtist(ctx context.Context, artistID int64) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs s WHERE s.artist_id = ? ORDER BY s.title ASC, s.id ASC`
	return r.list(ctx, query, artistID)
}

// ListByGenre retrieves the songs of one genre ordered by title
func (r *SongRepository) ListByGenre(ctx context.Context, genre models.Genre) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs s WHERE s.genre = ? ORDER BY s.title ASC, s.id ASC`
	return r.list(ctx, query, string(genre))
}

// Search retrieves songs whose title contains query, ignoring case. Wildcards in query match literally.
func (r *SongRepository) Search(ctx context.Context, query string) ([]*models.Song, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	sqlQuery := `SELECT ` + songColumns + ` FROM songs s WHERE ` + r.store.Lower("s.title") + ` LIKE ? ESCAPE '\' ORDER BY s.title ASC, s.id ASC`
	return r.list(ctx, sqlQuery, pattern)
}

// ListByIDs retrieves the songs with the given IDs, preserving the order of ids and skipping missing rows
func (r *SongRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Song, error) {
	if len(ids) == 0 {
		return []*models.Song{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT ` + songColumns + ` FROM songs s WHERE s.id IN (` + placeholders(len(ids)) + `)`
	songs, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Song, len(songs))
	for _, s := range songs {
		byID[s.ID()] = s
	}

	ordered := make([]*models.Song, 0, len(songs))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// ListDetails retrieves every song with its artist's name, ordered by artist name then title
func (r *SongRepository) ListDetails(ctx context.Context) ([]*models.SongDetails, error) {
	query := `
		SELECT ` + songColumns + `, a.name
		FROM songs s
		JOIN artists a ON a.id = s.artist_id
		ORDER BY a.name ASC, s.title ASC, s.id ASC
	`

	rows, err := r.store.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	details := []*models.SongDetails{}
	for rows.Next() {
		d, err := scanSongDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return details, nil
}

func (r *SongRepository) list(ctx context.Context, query string, args ...any) ([]*models.Song, error) {
	rows, err := r.store.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func scanSong(row scanner) (*models.Song, error) {
	song, _, err := scanSongWith(row, false)
	return song, err
}

func scanSongDetails(row scanner) (*models.SongDetails, error) {
	song, artistName, err := scanSongWith(row, true)
	if err != nil {
		return nil, err
	}
	return models.NewSongDetails(song, artistName), nil
}

func scanSongWith(row scanner, withArtist bool) (*models.Song, string, error) {
	var (
		id         int64
		title      string
		artistID   int64
		album      sql.NullString
		genre      sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
		artistName string
	)

	dest := []any{&id, &title, &artistID, &album, &genre, &createdAt, &updatedAt}
	if withArtist {
		dest = append(dest, &artistName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, "", err
	}

	var g *models.Genre
	if genre.Valid {
		v := models.Genre(genre.String)
		g = &v
	}

	song := models.NewSong(title, artistID, nullString(album), g)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	return song, artistName, nil
}
