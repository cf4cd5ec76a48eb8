package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/songbook/internal/shared"
)

var _ Model = (*Song)(nil)

// Song belongs to exactly one [Artist]. Album and genre are optional.
type Song struct {
	id        int64
	title     string
	artistID  int64
	album     *string
	genre     *Genre
	createdAt time.Time
	updatedAt time.Time
}

// NewSong creates an unsaved [Song].
func NewSong(title string, artistID int64, album *string, genre *Genre) *Song {
	return &Song{title: title, artistID: artistID, album: album, genre: genre}
}

func (s *Song) ID() int64            { return s.id }
func (s *Song) Title() string        { return s.title }
func (s *Song) ArtistID() int64      { return s.artistID }
func (s *Song) Album() *string       { return s.album }
func (s *Song) Genre() *Genre        { return s.genre }
func (s *Song) CreatedAt() time.Time { return s.createdAt }
func (s *Song) UpdatedAt() time.Time { return s.updatedAt }

func (s *Song) SetID(id int64)           { s.id = id }
func (s *Song) SetTitle(title string)    { s.title = title }
func (s *Song) SetArtistID(id int64)     { s.artistID = id }
func (s *Song) SetAlbum(album *string)   { s.album = album }
func (s *Song) SetGenre(genre *Genre)    { s.genre = genre }
func (s *Song) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *Song) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// Validate checks required fields, lengths and genre membership. Artist existence is checked by the service.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.title) == "" {
		return shared.Validation("Song title is required")
	}
	if s.artistID <= 0 {
		return shared.Validation("Artist ID is required")
	}
	if utf8.RuneCountInString(s.title) > MaxFieldLength {
		return shared.Validation("Song title must be %d characters or less", MaxFieldLength)
	}
	if s.album != nil && utf8.RuneCountInString(*s.album) > MaxFieldLength {
		return shared.Validation("Album name must be %d characters or less", MaxFieldLength)
	}
	if s.genre != nil {
		if _, err := ParseGenre(string(*s.genre)); err != nil {
			return err
		}
	}
	return nil
}

type songJSON struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	ArtistID   int64     `json:"artist_id"`
	ArtistName *string   `json:"artist_name,omitempty"`
	Album      *string   `json:"album"`
	Genre      *Genre    `json:"genre"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Song) toJSON() songJSON {
	return songJSON{
		ID:        s.id,
		Title:     s.title,
		ArtistID:  s.artistID,
		Album:     s.album,
		Genre:     s.genre,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

func (s *Song) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toJSON())
}

// SongDetails is a [Song] joined with the name of its artist.
type SongDetails struct {
	*Song
	artistName string
}

// NewSongDetails pairs song with its artist's name.
func NewSongDetails(song *Song, artistName string) *SongDetails {
	return &SongDetails{Song: song, artistName: artistName}
}

func (d *SongDetails) ArtistName() string { return d.artistName }

func (d *SongDetails) MarshalJSON() ([]byte, error) {
	v := d.Song.toJSON()
	v.ArtistName = &d.artistName
	return json.Marshal(v)
}
