// package server contains the router, middleware & HTTP server for the songbook API
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request ids, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route is one method + path template pair served by a [Handler].
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Handler defines the interface for groups of API endpoints.
// Implementations (artists, songs, users) declare their routes in registration order.
type Handler interface {
	Routes() []Route // Routes returns the routes this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                         // Use adds middleware to the router's middleware stack
	Handle(method, template string, handler http.Handler) // Handle registers a handler for the specified method and path template
	Handler(handler Handler)                              // Handler registers every route of a Handler implementation
	Dispatch(method, path string) (*Match, error)         // Dispatch resolves a request to a route and its path params
	ServeHTTP(w http.ResponseWriter, r *http.Request)     // ServeHTTP implements http.Handler for the entire router
}

// Server runs an [http.Server] until its context is cancelled, then shuts it down gracefully.
type Server struct {
	http   *http.Server
	logger *log.Logger
}

// New creates a [Server] listening on addr.
//
// Request handling is not time-boxed. Only header reads and idle keep-alive connections are bounded.
func New(addr string, handler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string { return s.http.Addr }

// Run serves requests until ctx is done or the listener fails.
//
// On cancellation in-flight requests get [shutdownTimeout] to finish.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
