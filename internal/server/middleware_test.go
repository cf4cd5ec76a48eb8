package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songbook/internal/shared"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	h := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q", body["error"])
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("panic should be logged")
	}
}

func TestWithRequestID(t *testing.T) {
	t.Run("Generates ID", func(t *testing.T) {
		var seen string
		h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen == "" {
			t.Fatal("expected request id in context")
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("response header %q does not match context %q", rec.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("Reuses Incoming ID", func(t *testing.T) {
		h := WithRequestID()(http.HandlerFunc(ok))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("request id = %q, want abc-123", got)
		}
	})

	t.Run("Missing From Context", func(t *testing.T) {
		if id := RequestID(context.Background()); id != "" {
			t.Errorf("RequestID() = %q, want empty", id)
		}
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := AccessLog(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/songs/1", nil))

	out := buf.String()
	for _, want := range []string{"DELETE", "/api/songs/1", "418"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log missing %q: %s", want, out)
		}
	}
}

func TestCORS(t *testing.T) {
	t.Run("Preflight", func(t *testing.T) {
		called := false
		h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/anything/at/all", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("preflight body should be empty, got %q", rec.Body.String())
		}
		if called {
			t.Error("preflight must not reach the handler")
		}
	})

	t.Run("Headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		CORS()(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		want := map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type, Authorization",
		}
		for k, v := range want {
			if got := rec.Header().Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("Through Router", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(CORS())

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/not/registered", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("OPTIONS on unknown path = %d, want 200", rec.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("Rejects When Exhausted", func(t *testing.T) {
		h := RateLimit(1, 2)(http.HandlerFunc(ok))

		codes := []int{}
		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, rec.Code)
		}

		if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
			t.Errorf("burst requests should pass, got %v", codes)
		}
		if codes[2] != http.StatusTooManyRequests {
			t.Errorf("third request = %d, want 429", codes[2])
		}
	})

	t.Run("Refills", func(t *testing.T) {
		h := RateLimit(50, 1)(http.HandlerFunc(ok))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		time.Sleep(40 * time.Millisecond)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status after refill = %d, want 200", rec.Code)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		h := RateLimit(0, 0)(http.HandlerFunc(ok))
		for range 20 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d with limiting disabled", rec.Code)
			}
		}
	})
}

func TestDefaults(t *testing.T) {
	var buf bytes.Buffer
	r := NewBasicRouter()
	r.Use(Defaults(shared.NewLogger(&buf), shared.ServerConfig{})...)
	r.Handle("GET", "/panic", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		panic("handler exploded")
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("request id should be set before the panic")
	}
}

func TestServer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New("127.0.0.1:0", NewBasicRouter(), shared.NewLogger(&bytes.Buffer{}))

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestNew(t *testing.T) {
	srv := New("127.0.0.1:0", NewBasicRouter(), nil)

	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.http.ReadTimeout != 0 || srv.http.WriteTimeout != 0 {
		t.Errorf("expected no request timeouts, got read=%v write=%v", srv.http.ReadTimeout, srv.http.WriteTimeout)
	}
	if srv.http.ReadHeaderTimeout == 0 {
		t.Error("expected header reads to stay bounded")
	}
}
