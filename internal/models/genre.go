package models

import (
	"strings"

	"github.com/desertthunder/songbook/internal/shared"
)

// Genre is a member of the closed set of song genres.
type Genre string

const (
	GenreRock       Genre = "rock"
	GenrePop        Genre = "pop"
	GenreJazz       Genre = "jazz"
	GenreClassical  Genre = "classical"
	GenreHipHop     Genre = "hip-hop"
	GenreElectronic Genre = "electronic"
	GenreCountry    Genre = "country"
	GenreRnB        Genre = "r&b"
	GenreMetal      Genre = "metal"
	GenreBlues      Genre = "blues"
	GenreReggae     Genre = "reggae"
	GenreFolk       Genre = "folk"
)

var genres = []Genre{
	GenreRock, GenrePop, GenreJazz, GenreClassical, GenreHipHop, GenreElectronic,
	GenreCountry, GenreRnB, GenreMetal, GenreBlues, GenreReggae, GenreFolk,
}

var genreSet = func() map[Genre]struct{} {
	m := make(map[Genre]struct{}, len(genres))
	for _, g := range genres {
		m[g] = struct{}{}
	}
	return m
}()

// Genres returns every valid genre.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// GenreNames returns the valid genres joined for use in error messages.
func GenreNames() string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// IsValidGenre reports whether s is exactly one of the genre values.
func IsValidGenre(s string) bool {
	_, ok := genreSet[Genre(s)]
	return ok
}

// ParseGenre converts s into a [Genre] or returns a validation error listing the valid values.
func ParseGenre(s string) (Genre, error) {
	if !IsValidGenre(s) {
		return "", shared.Validation("Invalid genre. Valid genres are: %s", GenreNames())
	}
	return Genre(s), nil
}

func (g Genre) String() string { return string(g) }
