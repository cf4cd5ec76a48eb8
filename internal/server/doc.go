// Package server provides HTTP routing, middleware and a gracefully stopping server for the JSON API.
//
// # Router
//
// [BasicRouter] matches path templates such as /api/artists/{id}/songs. Each {name} placeholder
// matches one non-empty segment and everything else is literal, anchored at both ends.
// Routes are tried in registration order, so literal routes must come before parameterized ones
// that would shadow them.
//
// Matched params are attached to the request with [http.Request.SetPathValue] and read back
// by handlers with [http.Request.PathValue]. Unmatched requests get 404 {"error":"Route not found"}.
//
// # Middleware
//
// [Middleware] is applied so that the first added runs first. [Defaults] builds the standard stack:
//   - [Recover]: panics become 500 JSON responses
//   - [WithRequestID]: X-Request-ID propagation
//   - [AccessLog]: one structured log line per request
//   - [CORS]: permissive headers, OPTIONS short-circuits with 200
//   - [RateLimit]: shared token bucket, 429 JSON when exhausted
//
// # Handler Interface
//
// Endpoint groups implement [Handler], returning their routes in the order they must be registered.
package server
