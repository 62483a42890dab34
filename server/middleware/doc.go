// Package middleware holds the HTTP middleware of the service.
//
// Server-level middleware use the net/http signature and wrap the whole
// ServeMux, so they see every request, routed or not. Timing is the
// outermost of them. Gin-level middleware (Recovery, ErrorHandler) run
// inside the router and hand failures to the error translator.
package middleware
