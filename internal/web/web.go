// Package web implements the JSON request handlers of the songbook API.
//
// # Architecture
//
// Each entity has one handler value ([ArtistHandler], [SongHandler], [UserHandler]) that:
//  1. extracts typed path params (decimal int64 ids; anything else is 400)
//  2. decodes the JSON body for writes, or query params for search
//  3. calls exactly one service operation
//  4. writes a JSON envelope through the shared [Responder]
//
// Handlers implement [server.Handler]; [Register] adds them to a router in the order their
// literal routes must precede parameterized ones.
//
// # Envelopes
//
// Failures are {"error": message}. Successes wrap entities by name ({"artist": ...},
// {"songs": [...], "count": n}) and writes add a "message". Filtered song lists echo the filter
// under "query", "genre" or "artist_id".
//
// # Status Codes
//
// [Responder.Error] is the single place mapping [shared.Kind] to HTTP status:
//
//	validation      400
//	authentication  401
//	not found       404
//	conflict        409
//	internal        500, logged with the request id; the client only sees the per-operation message
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/shared"
)

const maxBodyBytes = 1 << 20

// envelope is a JSON response body.
type envelope map[string]any

// Responder writes JSON responses and maps service errors to status codes.
type Responder struct {
	logger *log.Logger
}

// NewResponder creates a [Responder] logging internal errors to logger.
func NewResponder(logger *log.Logger) *Responder {
	if logger == nil {
		logger = log.Default()
	}
	return &Responder{logger: logger}
}

// JSON writes v with the given status.
func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Warn("failed to encode response", "error", err)
	}
}

// Fail writes {"error": message} with the given status.
func (rs *Responder) Fail(w http.ResponseWriter, status int, message string) {
	rs.JSON(w, status, envelope{"error": message})
}

// Error writes err using its [shared.Kind].
//
// Internal failures are logged and answered with fallback so store details never reach the client.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	kind := shared.KindOf(err)
	if kind == shared.KindInternal {
		rs.logger.Error(fallback,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", server.RequestID(r.Context()),
		)
		rs.Fail(w, http.StatusInternalServerError, fallback)
		return
	}
	rs.Fail(w, StatusFor(kind), shared.MessageOf(err, fallback))
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind shared.Kind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindAuthentication:
		return http.StatusUnauthorized
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads the request body into dst.
//
// Empty, malformed or mistyped bodies are a validation error "Invalid JSON input".
func (rs *Responder) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return invalidJSON(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidJSON(fmt.Errorf("trailing data after JSON body"))
	}
	return nil
}

func invalidJSON(err error) error {
	e := shared.Validation("Invalid JSON input")
	e.Err = err
	return e
}

// pathID parses the decimal id in path param name. label names the entity in the error message.
// Only plain digits are accepted, so signs are rejected.
func pathID(r *http.Request, name, label string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" || strings.IndexFunc(raw, func(c rune) bool { return c < '0' || c > '9' }) >= 0 {
		return 0, shared.Validation("Invalid %s ID", label)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.Validation("Invalid %s ID", label)
	}
	return id, nil
}

// Register adds every handler's routes to router, in argument order.
func Register(router server.Router, handlers ...server.Handler) {
	for _, h := range handlers {
		router.Handler(h)
	}
}
