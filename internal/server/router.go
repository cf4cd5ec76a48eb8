package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// ErrRouteNotFound is returned by [BasicRouter.Dispatch] when no route matches.
var ErrRouteNotFound = errors.New("route not found")

var placeholder = regexp.MustCompile(`\{([^/{}]+)\}`)

type route struct {
	method   string
	template string
	pattern  *regexp.Regexp
	params   []string
	handler  http.Handler
}

// Match is the result of a successful [BasicRouter.Dispatch].
type Match struct {
	Template string
	Handler  http.Handler
	Params   map[string]string
}

// BasicRouter is a path template router implementing the [Router] interface.
//
// Templates contain literal segments and {name} placeholders, each matching one non-empty path segment.
// Routes are tried in registration order and the first match wins, so literal routes such as
// /api/songs/search must be registered before /api/songs/{id}.
type BasicRouter struct {
	routes      []route
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		routes:      []route{},
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack. The first added is outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path template.
func (r *BasicRouter) Handle(method, template string, handler http.Handler) {
	pattern, params := compileTemplate(template)
	r.routes = append(r.routes, route{
		method:   strings.ToUpper(method),
		template: template,
		pattern:  pattern,
		params:   params,
		handler:  handler,
	})
}

// HandleFunc registers a handler function for the specified HTTP method and path template.
func (r *BasicRouter) HandleFunc(method, template string, handler http.HandlerFunc) {
	r.Handle(method, template, handler)
}

// Handler registers every route returned by [Handler.Routes], in order.
func (r *BasicRouter) Handler(handler Handler) {
	for _, rt := range handler.Routes() {
		r.Handle(rt.Method, rt.Path, rt.Handler)
	}
}

// Dispatch returns the first route whose method matches exactly and whose template matches path.
//
// Any query string is ignored. Returns [ErrRouteNotFound] when nothing matches.
func (r *BasicRouter) Dispatch(method, path string) (*Match, error) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	for _, rt := range r.routes {
		if rt.method != method {
			continue
		}

		groups := rt.pattern.FindStringSubmatch(path)
		if groups == nil {
			continue
		}

		params := make(map[string]string, len(rt.params))
		for i, name := range rt.params {
			params[name] = groups[i+1]
		}
		return &Match{Template: rt.template, Handler: rt.handler, Params: params}, nil
	}
	return nil, ErrRouteNotFound
}

// ServeHTTP implements [http.Handler] for the entire router.
//
// Middleware wraps dispatch, so preflight and unmatched requests pass through it as well.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Apply(http.HandlerFunc(r.dispatch)).ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order so the first added runs first.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

func (r *BasicRouter) dispatch(w http.ResponseWriter, req *http.Request) {
	match, err := r.Dispatch(req.Method, req.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Route not found")
		return
	}

	for name, value := range match.Params {
		req.SetPathValue(name, value)
	}
	match.Handler.ServeHTTP(w, req)
}

// compileTemplate turns /api/songs/{id} into ^/api/songs/([^/]+)$ and the ordered placeholder names.
func compileTemplate(template string) (*regexp.Regexp, []string) {
	var b strings.Builder
	params := []string{}

	b.WriteString("^")
	last := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(template, -1) {
		b.WriteString(regexp.QuoteMeta(template[last:loc[0]]))
		b.WriteString("([^/]+)")
		params = append(params, template[loc[2]:loc[3]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteString("$")

	return regexp.MustCompile(b.String()), params
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
