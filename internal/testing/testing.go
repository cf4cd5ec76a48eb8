// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
)

// SetupStore opens an in-memory SQLite database with migrations applied. The database is closed on test cleanup.
func SetupStore(t *testing.T) *repositories.Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(db, shared.DialectSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return repositories.NewStore(db, shared.DialectSQLite)
}

// MustCreateArtist inserts an artist directly through the repository
func MustCreateArtist(t *testing.T, store *repositories.Store, name string) *models.Artist {
	t.Helper()
	artist, err := repositories.NewArtistRepository(store).Create(context.Background(), models.NewArtist(name, nil, nil))
	if err != nil {
		t.Fatalf("failed to create artist %s: %v", name, err)
	}
	return artist
}

// MustCreateSong inserts a song directly through the repository
func MustCreateSong(t *testing.T, store *repositories.Store, title string, artistID int64, genre models.Genre) *models.Song {
	t.Helper()

	var g *models.Genre
	if genre != "" {
		g = &genre
	}

	song, err := repositories.NewSongRepository(store).Create(context.Background(), models.NewSong(title, artistID, nil, g))
	if err != nil {
		t.Fatalf("failed to create song %s: %v", title, err)
	}
	return song
}

// FakeIndex is an in-memory test double for services.SongIndex.
//
// Err, when set, is returned from every call. SearchIDs is returned from Search.
type FakeIndex struct {
	mu        sync.Mutex
	Err       error
	SearchIDs []int64
	Docs      map[int64]*models.SongDetails
	Deleted   []int64
	Queries   []string
}

func NewFakeIndex() *FakeIndex {
	return &FakeIndex{Docs: make(map[int64]*models.SongDetails)}
}

func (f *FakeIndex) Upsert(ctx context.Context, song *models.SongDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Docs[song.ID()] = song
	return nil
}

func (f *FakeIndex) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.Docs, id)
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *FakeIndex) Search(ctx context.Context, query string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Queries = append(f.Queries, query)
	if f.Err != nil {
		return nil, f.Err
	}
	return slices.Clone(f.SearchIDs), nil
}

// Len returns the number of indexed documents
func (f *FakeIndex) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Docs)
}

// Has reports whether a document for id is indexed
func (f *FakeIndex) Has(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Docs[id]
	return ok
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
