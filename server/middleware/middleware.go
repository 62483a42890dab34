package middleware

import (
	"net/http"
	"slices"
)

// Response headers set by the middleware in this package.
const (
	HeaderRequestID   = "X-Request-Id"
	HeaderProcessTime = "X-Process-Time"
)

// Middleware is the server-level wrapper type. The server-level chain sits
// in front of the mux, so it sees every request, routed or not.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares so that the first one listed sees the request
// first and the response last.
func Chain(middlewares ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, m := range slices.Backward(middlewares) {
			h = m(h)
		}
		return h
	}
}
