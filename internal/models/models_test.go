package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songbook/internal/shared"
)

func TestGenre(t *testing.T) {
	t.Run("IsValidGenre", func(t *testing.T) {
		for _, g := range Genres() {
			if !IsValidGenre(string(g)) {
				t.Errorf("%s should be valid", g)
			}
		}

		for _, s := range []string{"dubstep", "Rock", " jazz", "", "hiphop", "rnb"} {
			if IsValidGenre(s) {
				t.Errorf("%q should not be valid", s)
			}
		}
	})

	t.Run("ParseGenre", func(t *testing.T) {
		g, err := ParseGenre("r&b")
		if err != nil || g != GenreRnB {
			t.Errorf("ParseGenre(r&b) = %v, %v", g, err)
		}

		_, err = ParseGenre("dubstep")
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.Contains(err.Error(), "hip-hop") {
			t.Errorf("error should list valid genres, got %q", err.Error())
		}
	})

	t.Run("Genres is a copy", func(t *testing.T) {
		gs := Genres()
		if len(gs) != 12 {
			t.Fatalf("expected 12 genres, got %d", len(gs))
		}
		gs[0] = "dubstep"
		if IsValidGenre("dubstep") || Genres()[0] != GenreRock {
			t.Error("mutating the returned slice should not affect the set")
		}
	})
}

func TestOptional(t *testing.T) {
	type payload struct {
		Bio   Optional[string] `json:"bio"`
		Album Optional[string] `json:"album"`
		Count Optional[int64]  `json:"count"`
	}

	tc := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantValue string
	}{
		{name: "omitted", body: `{}`, wantSet: false, wantValid: false},
		{name: "null", body: `{"bio": null}`, wantSet: true, wantValid: false},
		{name: "empty string", body: `{"bio": ""}`, wantSet: true, wantValid: true, wantValue: ""},
		{name: "value", body: `{"bio": "x"}`, wantSet: true, wantValid: true, wantValue: "x"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if p.Bio.Set != tt.wantSet || p.Bio.Valid != tt.wantValid || p.Bio.Value != tt.wantValue {
				t.Errorf("got %+v", p.Bio)
			}
			if p.Album.Set {
				t.Error("album was never in the payload")
			}
		})
	}

	t.Run("wrong type", func(t *testing.T) {
		var p payload
		if err := json.Unmarshal([]byte(`{"count": "seven"}`), &p); err == nil {
			t.Error("expected type error")
		}
	})

	t.Run("Ptr", func(t *testing.T) {
		if Null[string]().Ptr() != nil {
			t.Error("null should yield nil pointer")
		}
		if p := Some("a").Ptr(); p == nil || *p != "a" {
			t.Errorf("Some(a).Ptr() = %v", p)
		}
	})
}

func TestArtist(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			artist  *Artist
			wantErr bool
		}{
			{name: "valid", artist: NewArtist("Queen", nil, nil)},
			{name: "empty name", artist: NewArtist("", nil, nil), wantErr: true},
			{name: "whitespace name", artist: NewArtist("   ", nil, nil), wantErr: true},
			{name: "too long", artist: NewArtist(strings.Repeat("a", 256), nil, nil), wantErr: true},
			{name: "max length", artist: NewArtist(strings.Repeat("é", 255), nil, nil)},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.artist.Validate()
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		a := NewArtist("Queen", Ptr("British rock band"), nil)
		a.SetID(7)
		a.SetCreatedAt(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

		data, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		out := string(data)
		for _, want := range []string{`"id":7`, `"name":"Queen"`, `"bio":"British rock band"`, `"image_url":null`, `"created_at":"2024-01-02T03:04:05Z"`} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %s in %s", want, out)
			}
		}
	})
}

func TestSong(t *testing.T) {
	rock := GenreRock
	dubstep := Genre("dubstep")

	tc := []struct {
		name    string
		song    *Song
		wantErr bool
	}{
		{name: "valid", song: NewSong("Bohemian Rhapsody", 1, Ptr("A Night at the Opera"), &rock)},
		{name: "no optional fields", song: NewSong("Bohemian Rhapsody", 1, nil, nil)},
		{name: "missing title", song: NewSong("", 1, nil, nil), wantErr: true},
		{name: "missing artist", song: NewSong("x", 0, nil, nil), wantErr: true},
		{name: "long album", song: NewSong("x", 1, Ptr(strings.Repeat("b", 256)), nil), wantErr: true},
		{name: "invalid genre", song: NewSong("x", 1, nil, &dubstep), wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.song.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}

	t.Run("SongDetails MarshalJSON", func(t *testing.T) {
		s := NewSong("Bohemian Rhapsody", 3, nil, &rock)
		data, err := json.Marshal(NewSongDetails(s, "Queen"))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"artist_name":"Queen"`) || !strings.Contains(string(data), `"genre":"rock"`) {
			t.Errorf("unexpected details json %s", data)
		}

		plain, _ := json.Marshal(s)
		if strings.Contains(string(plain), "artist_name") {
			t.Errorf("plain song should not include artist_name: %s", plain)
		}
	})
}

func TestUser(t *testing.T) {
	tc := []struct {
		name    string
		user    *User
		wantErr string
	}{
		{name: "valid", user: NewUser("freddie", "freddie@example.com", "$2a$hash")},
		{name: "missing fields", user: NewUser("", "freddie@example.com", "$2a$hash"), wantErr: "All fields are required"},
		{name: "short username", user: NewUser("fm", "freddie@example.com", "$2a$hash"), wantErr: "at least 3"},
		{name: "long username", user: NewUser(strings.Repeat("f", 51), "freddie@example.com", "$2a$hash"), wantErr: "cannot exceed 50"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	t.Run("MarshalJSON hides password", func(t *testing.T) {
		data, err := json.Marshal(NewUser("freddie", "freddie@example.com", "$2a$10$secret"))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "secret") || strings.Contains(string(data), "password") {
			t.Errorf("password leaked into json: %s", data)
		}
	})
}
