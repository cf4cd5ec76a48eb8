package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Route", name)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"route":    name,
			"id":       r.PathValue("id"),
			"artistId": r.PathValue("artistId"),
			"genre":    r.PathValue("genre"),
		})
	}
}

func catalogRouter() *BasicRouter {
	r := NewBasicRouter()
	r.Handle("GET", "/api/artists", named("artists.list"))
	r.Handle("GET", "/api/artists/{artistId}/songs", named("artists.songs"))
	r.Handle("GET", "/api/artists/{id}", named("artists.get"))
	r.Handle("get", "/api/songs/search", named("songs.search"))
	r.Handle("GET", "/api/songs/genre/{genre}", named("songs.genre"))
	r.Handle("GET", "/api/songs/{id}/details", named("songs.details"))
	r.Handle("GET", "/api/songs/{id}", named("songs.get"))
	r.Handle("PUT", "/api/users/{id}/password", named("users.password"))
	r.Handle("PUT", "/api/users/{id}", named("users.update"))
	return r
}

func TestBasicRouter_Dispatch(t *testing.T) {
	r := catalogRouter()

	tc := []struct {
		name     string
		method   string
		path     string
		template string
		params   map[string]string
	}{
		{name: "Literal", method: "GET", path: "/api/artists", template: "/api/artists", params: map[string]string{}},
		{name: "Single Param", method: "GET", path: "/api/artists/42", template: "/api/artists/{id}", params: map[string]string{"id": "42"}},
		{name: "Nested Param", method: "GET", path: "/api/artists/7/songs", template: "/api/artists/{artistId}/songs", params: map[string]string{"artistId": "7"}},
		{name: "Literal Before Param", method: "GET", path: "/api/songs/search", template: "/api/songs/search", params: map[string]string{}},
		{name: "Query String Stripped", method: "GET", path: "/api/songs/search?q=queen", template: "/api/songs/search", params: map[string]string{}},
		{name: "String Param", method: "GET", path: "/api/songs/genre/hip-hop", template: "/api/songs/genre/{genre}", params: map[string]string{"genre": "hip-hop"}},
		{name: "Suffix Route", method: "GET", path: "/api/songs/3/details", template: "/api/songs/{id}/details", params: map[string]string{"id": "3"}},
		{name: "Non Numeric Param", method: "GET", path: "/api/songs/abc", template: "/api/songs/{id}", params: map[string]string{"id": "abc"}},
		{name: "Method Selects Route", method: "PUT", path: "/api/users/9/password", template: "/api/users/{id}/password", params: map[string]string{"id": "9"}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.Dispatch(tt.method, tt.path)
			if err != nil {
				t.Fatalf("Dispatch(%s, %s) error = %v", tt.method, tt.path, err)
			}
			if m.Template != tt.template {
				t.Errorf("template = %s, want %s", m.Template, tt.template)
			}
			if len(m.Params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", m.Params, tt.params)
			}
			for k, v := range tt.params {
				if m.Params[k] != v {
					t.Errorf("param %s = %q, want %q", k, m.Params[k], v)
				}
			}
		})
	}
}

func TestBasicRouter_DispatchMisses(t *testing.T) {
	r := catalogRouter()

	tc := []struct {
		name   string
		method string
		path   string
	}{
		{name: "Unknown Path", method: "GET", path: "/api/albums"},
		{name: "Wrong Method", method: "DELETE", path: "/api/artists"},
		{name: "Lowercase Method", method: "get", path: "/api/artists"},
		{name: "Trailing Slash", method: "GET", path: "/api/artists/"},
		{name: "Extra Segment", method: "GET", path: "/api/artists/1/songs/2"},
		{name: "Empty Param", method: "GET", path: "/api/songs/genre/"},
		{name: "Prefix Only", method: "GET", path: "/api"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Dispatch(tt.method, tt.path); !errors.Is(err, ErrRouteNotFound) {
				t.Errorf("Dispatch(%s, %s) error = %v, want ErrRouteNotFound", tt.method, tt.path, err)
			}
		})
	}
}

func TestBasicRouter_FirstMatchWins(t *testing.T) {
	r := NewBasicRouter()
	r.Handle("GET", "/api/songs/{id}", named("param"))
	r.Handle("GET", "/api/songs/search", named("literal"))

	m, err := r.Dispatch("GET", "/api/songs/search")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if m.Template != "/api/songs/{id}" {
		t.Errorf("expected earlier param route to win, got %s", m.Template)
	}
}

func TestBasicRouter_LiteralMetacharacters(t *testing.T) {
	r := NewBasicRouter()
	r.Handle("GET", "/v1.0/items", named("dotted"))

	if _, err := r.Dispatch("GET", "/v1x0/items"); !errors.Is(err, ErrRouteNotFound) {
		t.Error("dots in templates must match literally")
	}
	if _, err := r.Dispatch("GET", "/v1.0/items"); err != nil {
		t.Errorf("Dispatch() error = %v", err)
	}
}

func TestBasicRouter_ServeHTTP(t *testing.T) {
	t.Run("Sets Path Values", func(t *testing.T) {
		r := catalogRouter()
		req := httptest.NewRequest(http.MethodGet, "/api/artists/12/songs", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["route"] != "artists.songs" || body["artistId"] != "12" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		r := catalogRouter()
		req := httptest.NewRequest(http.MethodPost, "/api/nothing", nil)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["error"] != "Route not found" {
			t.Errorf("error = %q", body["error"])
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		r := catalogRouter()
		order := []string{}
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}
		r.Use(mark("first"), mark("second"))
		r.Use(mark("third"))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/artists", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
			t.Errorf("middleware ran in order %v", order)
		}
	})

	t.Run("Middleware Sees Unmatched Requests", func(t *testing.T) {
		r := catalogRouter()
		hit := false
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				hit = true
				next.ServeHTTP(w, req)
			})
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

		if !hit {
			t.Error("middleware should wrap the not found response")
		}
	})
}

type fakeHandler struct{}

func (fakeHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/things/search", Handler: named("search")},
		{Method: http.MethodGet, Path: "/api/things/{id}", Handler: named("get")},
	}
}

func TestBasicRouter_Handler(t *testing.T) {
	r := NewBasicRouter()
	r.Handler(fakeHandler{})

	m, err := r.Dispatch("GET", "/api/things/search")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if m.Template != "/api/things/search" {
		t.Errorf("routes should register in declared order, got %s", m.Template)
	}
}

func TestCompileTemplate(t *testing.T) {
	pattern, params := compileTemplate("/api/{a}/x/{b}")
	if got := pattern.String(); got != `^/api/([^/]+)/x/([^/]+)$` {
		t.Errorf("pattern = %s", got)
	}
	if len(params) != 2 || params[0] != "a" || params[1] != "b" {
		t.Errorf("params = %v", params)
	}
}
