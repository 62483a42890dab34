package middleware

import (
	"net/http"

	"github.com/kbukum/demoservice/observability"
)

// Tracing starts a server span per request, continuing any trace context
// carried in the request headers. Inside Timing the span is named after the
// matched route.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartServerSpan(r)
			sw := newStatusWriter(w)
			defer func() {
				var label string
				if rt, ok := ctx.Value(routeKey{}).(*route); ok {
					label = rt.label()
				}
				observability.FinishServerSpan(span, r.Method, label, sw.status, w.Header().Get(HeaderRequestID))
			}()
			next.ServeHTTP(sw, r.WithContext(ctx))
		})
	}
}
