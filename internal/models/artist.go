package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/songbook/internal/shared"
)

var _ Model = (*Artist)(nil)

// Artist is a performer in the catalog. Bio and image URL are optional.
type Artist struct {
	id        int64
	name      string
	bio       *string
	imageURL  *string
	createdAt time.Time
	updatedAt time.Time
}

// NewArtist creates an unsaved [Artist] with the given name.
func NewArtist(name string, bio, imageURL *string) *Artist {
	return &Artist{name: name, bio: bio, imageURL: imageURL}
}

func (a *Artist) ID() int64            { return a.id }
func (a *Artist) Name() string         { return a.name }
func (a *Artist) Bio() *string         { return a.bio }
func (a *Artist) ImageURL() *string    { return a.imageURL }
func (a *Artist) CreatedAt() time.Time { return a.createdAt }
func (a *Artist) UpdatedAt() time.Time { return a.updatedAt }

func (a *Artist) SetID(id int64)           { a.id = id }
func (a *Artist) SetName(name string)      { a.name = name }
func (a *Artist) SetBio(bio *string)       { a.bio = bio }
func (a *Artist) SetImageURL(url *string)  { a.imageURL = url }
func (a *Artist) SetCreatedAt(t time.Time) { a.createdAt = t }
func (a *Artist) SetUpdatedAt(t time.Time) { a.updatedAt = t }

// Validate checks the name is present and within bounds.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.name) == "" {
		return shared.Validation("Artist name is required")
	}
	if utf8.RuneCountInString(a.name) > MaxFieldLength {
		return shared.Validation("Artist name must be %d characters or less", MaxFieldLength)
	}
	return nil
}

type artistJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Artist) MarshalJSON() ([]byte, error) {
	return json.Marshal(artistJSON{
		ID:        a.id,
		Name:      a.name,
		Bio:       a.bio,
		ImageURL:  a.imageURL,
		CreatedAt: a.createdAt,
		UpdatedAt: a.updatedAt,
	})
}
