package web

import (
	"context"
	"net/http"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
)

// ArtistService is the artist use-case surface the handlers depend on.
type ArtistService interface {
	Create(ctx context.Context, in services.ArtistInput) (*models.Artist, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	GetAll(ctx context.Context) ([]*models.Artist, error)
	Update(ctx context.Context, id int64, in services.ArtistUpdate) (*models.Artist, error)
	Delete(ctx context.Context, id int64) error
}

// ArtistHandler serves /api/artists.
//
// It also serves the nested song listing of one artist, which must be registered before /api/artists/{id}.
type ArtistHandler struct {
	artists ArtistService
	songs   SongService
	resp    *Responder
}

// NewArtistHandler creates an [ArtistHandler]
func NewArtistHandler(artists ArtistService, songs SongService, resp *Responder) *ArtistHandler {
	return &ArtistHandler{artists: artists, songs: songs, resp: resp}
}

// Routes implements [server.Handler].
func (h *ArtistHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/api/artists", Handler: h.list},
		{Method: http.MethodGet, Path: "/api/artists/{artistId}/songs", Handler: h.songsByArtist},
		{Method: http.MethodGet, Path: "/api/artists/{id}", Handler: h.get},
		{Method: http.MethodPost, Path: "/api/artists", Handler: h.create},
		{Method: http.MethodPut, Path: "/api/artists/{id}", Handler: h.update},
		{Method: http.MethodDelete, Path: "/api/artists/{id}", Handler: h.delete},
	}
}

func (h *ArtistHandler) list(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.GetAll(r.Context())
	if err != nil {
		h.resp.Error(w, r, err, "Failed to get artists")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"artists": artists, "count": len(artists)})
}

func (h *ArtistHandler) songsByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, err := pathID(r, "artistId", "artist")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch artist songs")
		return
	}

	songs, err := h.songs.GetByArtist(r.Context(), artistID)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch artist songs")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"artist_id": artistID, "songs": songs, "count": len(songs)})
}

func (h *ArtistHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "artist")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to get artist")
		return
	}

	artist, err := h.artists.Get(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to get artist")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"artist": artist})
}

func (h *ArtistHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.ArtistInput
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to create artist")
		return
	}

	artist, err := h.artists.Create(r.Context(), in)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to create artist")
		return
	}
	h.resp.JSON(w, http.StatusCreated, envelope{"message": "Artist created successfully", "artist": artist})
}

func (h *ArtistHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "artist")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update artist")
		return
	}

	var in services.ArtistUpdate
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to update artist")
		return
	}

	artist, err := h.artists.Update(r.Context(), id, in)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update artist")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Artist updated successfully", "artist": artist})
}

func (h *ArtistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "artist")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to delete artist")
		return
	}

	if err := h.artists.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err, "Failed to delete artist")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Artist deleted successfully"})
}
