package web

import (
	"context"
	"net/http"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
)

// SongService is the song use-case surface the handlers depend on.
type SongService interface {
	Create(ctx context.Context, in services.SongInput) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	GetDetails(ctx context.Context, id int64) (*models.SongDetails, error)
	GetAll(ctx context.Context) ([]*models.Song, error)
	GetByArtist(ctx context.Context, artistID int64) ([]*models.Song, error)
	GetByGenre(ctx context.Context, genre string) ([]*models.Song, error)
	Search(ctx context.Context, query string) ([]*models.Song, error)
	Update(ctx context.Context, id int64, in services.SongUpdate) (*models.Song, error)
	Delete(ctx context.Context, id int64) error
}

// SongHandler serves /api/songs.
type SongHandler struct {
	songs SongService
	resp  *Responder
}

// NewSongHandler creates a [SongHandler]
func NewSongHandler(songs SongService, resp *Responder) *SongHandler {
	return &SongHandler{songs: songs, resp: resp}
}

// Routes implements [server.Handler]. Literal paths precede /api/songs/{id}.
func (h *SongHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/api/songs", Handler: h.list},
		{Method: http.MethodGet, Path: "/api/songs/search", Handler: h.search},
		{Method: http.MethodGet, Path: "/api/songs/genre/{genre}", Handler: h.byGenre},
		{Method: http.MethodGet, Path: "/api/songs/{id}/details", Handler: h.details},
		{Method: http.MethodGet, Path: "/api/songs/{id}", Handler: h.get},
		{Method: http.MethodPost, Path: "/api/songs", Handler: h.create},
		{Method: http.MethodPut, Path: "/api/songs/{id}", Handler: h.update},
		{Method: http.MethodDelete, Path: "/api/songs/{id}", Handler: h.delete},
	}
}

func (h *SongHandler) list(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.GetAll(r.Context())
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch songs")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"songs": songs, "count": len(songs)})
}

func (h *SongHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	songs, err := h.songs.Search(r.Context(), query)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to search songs")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"query": query, "songs": songs, "count": len(songs)})
}

func (h *SongHandler) byGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")

	songs, err := h.songs.GetByGenre(r.Context(), genre)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch songs by genre")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"genre": genre, "songs": songs, "count": len(songs)})
}

func (h *SongHandler) details(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "song")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch song details")
		return
	}

	song, err := h.songs.GetDetails(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch song details")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"song": song})
}

func (h *SongHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "song")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch song")
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch song")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"song": song})
}

func (h *SongHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.SongInput
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to create song")
		return
	}

	song, err := h.songs.Create(r.Context(), in)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to create song")
		return
	}
	h.resp.JSON(w, http.StatusCreated, envelope{"message": "Song created successfully", "song": song})
}

func (h *SongHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "song")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update song")
		return
	}

	var in services.SongUpdate
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to update song")
		return
	}

	song, err := h.songs.Update(r.Context(), id, in)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update song")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Song updated successfully", "song": song})
}

func (h *SongHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "song")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to delete song")
		return
	}

	if err := h.songs.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err, "Failed to delete song")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Song deleted successfully"})
}
