package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/observability"
)

// Timing returns the outermost instrumentation middleware. It logs a
// "Request" line on entry and a "Response" line on exit, sets the
// X-Process-Time header to the elapsed seconds, and records request
// metrics when metrics is non-nil. A nil log uses the global logger.
//
// The header is stamped when the response header is committed, so it
// measures the time until the handler started responding. Metrics are
// labelled with the route reported by Route, never the raw path.
//
// The exit line and metrics are also recorded when the handler aborts with
// a panic; an abort before any header was sent counts as a 500.
func Timing(log *logger.Logger, metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log
			if l == nil {
				l = logger.GetGlobalLogger()
			}

			start := time.Now()
			method, path := r.Method, r.URL.Path
			l.Info("Request", logger.Fields(
				logger.FieldMethod, method,
				logger.FieldPath, path,
			))
			metrics.RecordRequestStart(r.Context())

			ctx, rt := withRoute(r.Context())
			sw := newStatusWriter(w)
			sw.beforeCommit = func(h http.Header) {
				h.Set(HeaderProcessTime, formatSeconds(time.Since(start)))
			}

			completed := false
			defer func() {
				status := sw.status
				if !sw.wroteHeader {
					if completed {
						sw.WriteHeader(http.StatusOK)
					} else {
						status = http.StatusInternalServerError
					}
				}
				duration := time.Since(start)

				fields := logger.Fields(
					logger.FieldMethod, method,
					logger.FieldPath, path,
					logger.FieldStatus, status,
					logger.FieldDuration, logger.Seconds(duration),
				)
				if id := w.Header().Get(HeaderRequestID); id != "" {
					fields[logger.FieldRequestID] = id
				}
				if !completed {
					fields[fieldAborted] = true
				}
				l.Info("Response", fields)

				metrics.RecordRequestEnd(ctx, method, rt.label(), status, duration)
			}()

			next.ServeHTTP(sw, r.WithContext(ctx))
			completed = true
		})
	}
}

const fieldAborted = "aborted"

// formatSeconds renders d as decimal seconds with nanosecond precision.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 9, 64)
}
