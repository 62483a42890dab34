package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// RouteUnmatched labels requests no registered route claimed.
const RouteUnmatched = "unmatched"

type routeKey struct{}

// route carries the matched route pattern from Gin back out to Timing.
type route struct {
	pattern string
}

func withRoute(ctx context.Context) (context.Context, *route) {
	rt := &route{}
	return context.WithValue(ctx, routeKey{}, rt), rt
}

func (rt *route) label() string {
	if rt.pattern == "" {
		return RouteUnmatched
	}
	return rt.pattern
}

// Route reports the matched route pattern, such as "/health", to Timing so
// metrics are labelled by route rather than by raw path. Unmatched requests
// keep the RouteUnmatched label.
func Route() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rt, ok := c.Request.Context().Value(routeKey{}).(*route); ok {
			rt.pattern = c.FullPath()
		}
		c.Next()
	}
}
