package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/kbukum/demoservice/logger"
)

// SentryHub attaches a per-request Sentry hub carrying the request to the
// context, so faults captured during the request are reported with it.
// It runs inside RequestID and tags the hub with the sanitized ID.
func SentryHub() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(r)
			if id := logger.RequestIDFromContext(r.Context()); id != "" {
				hub.Scope().SetTag("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
		})
	}
}
