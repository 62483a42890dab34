// Package server provides the HTTP server: a Gin engine behind a net/http
// middleware chain, served over HTTP/1.1 and h2c.
//
// # Request path
//
// Every request passes, outermost first, through Timing, Tracing,
// SentryHub, CORS, RequestID and BodySizeLimit before reaching the router.
// Inside Gin, Recovery turns panics into unexpected faults and
// ErrorHandler translates the last error a handler attached with c.Error.
// Unmatched paths and methods are reported as NotFoundError and
// MethodNotAllowedError through the same translator, so every failure has
// the body {"error", "message", "detail"}.
//
// # Endpoints
//
// RegisterDefaultEndpoints mounts (server/endpoint):
//
//   - GET /: service identity and documentation links
//   - GET /health: liveness with version, environment and timestamp
//   - GET /health/system: memory, runtime, os, cpu and disk report
//   - GET /openapi.yaml, /openapi.json, /docs, /redoc: API documentation
package server
