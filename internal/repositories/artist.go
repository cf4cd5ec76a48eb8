package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songbook/internal/models"
)

var _ models.Repository[*models.Artist] = (*ArtistRepository)(nil)

const artistColumns = "id, name, bio, image_url, created_at, updated_at"

// ArtistRepository implements [models.Repository] for [models.Artist] persistence.
type ArtistRepository struct {
	store *Store
}

// NewArtistRepository creates a new [ArtistRepository] backed by store
func NewArtistRepository(store *Store) *ArtistRepository {
	return &ArtistRepository{store: store}
}

// Create inserts a new artist and returns it re-read from the database
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := artist.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO artists (name, bio, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	id, err := r.store.Insert(ctx, query, artist.Name(), artist.Bio(), artist.ImageURL(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert artist: %w", err)
	}

	created, err := r.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: artist %d", ErrMissingAfterWrite, id)
	}
	return created, err
}

// Get retrieves an artist by ID
func (r *ArtistRepository) Get(ctx context.Context, id int64) (*models.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`

	artist, err := scanArtist(r.store.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "artist", id)
	}
	return artist, nil
}

// Exists reports whether an artist with the given ID exists
func (r *ArtistRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.store.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM artists WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check artist: %w", err)
	}
	return exists, nil
}

// Count returns the number of artists
func (r *ArtistRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.store.QueryRow(ctx, `SELECT COUNT(*) FROM artists`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return n, nil
}

// Update writes name, bio and image URL, refreshes updated_at and returns the stored row.
// Returns [ErrNotFound] when no row matched.
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := artist.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `UPDATE artists SET name = ?, bio = ?, image_url = ?, updated_at = ? WHERE id = ?`

	rows, err := r.store.Exec(ctx, query, artist.Name(), artist.Bio(), artist.ImageURL(), time.Now().UTC(), artist.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: artist %d", ErrNotFound, artist.ID())
	}

	return r.Get(ctx, artist.ID())
}

// Delete removes an artist and reports whether a row was removed.
// Returns [ErrForeignKey] when songs still reference the artist.
func (r *ArtistRepository) Delete(ctx context.Context, id int64) (bool, error) {
	rows, err := r.store.Exec(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete artist: %w", err)
	}
	return rows > 0, nil
}

// List retrieves all artists ordered by name
func (r *ArtistRepository) List(ctx context.Context) ([]*models.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists ORDER BY name ASC, id ASC`

	rows, err := r.store.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := []*models.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

func scanArtist(row scanner) (*models.Artist, error) {
	var (
		id        int64
		name      string
		bio       sql.NullString
		imageURL  sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &bio, &imageURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	artist := models.NewArtist(name, nullString(bio), nullString(imageURL))
	artist.SetID(id)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)
	return artist, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
