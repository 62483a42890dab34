package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/demoservice/errors"
)

// ErrorHandler is the single interception point for handler errors. After
// the chain runs, the last error attached with c.Error is translated and
// written, unless the handler already wrote a response.
func ErrorHandler(t *apperrors.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, body := t.Translate(c.Request.Context(), c.Errors.Last().Err)
		c.AbortWithStatusJSON(status, body)
	}
}

// NotFound is the NoRoute handler: it reports the unmatched path.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(&apperrors.RouteNotFoundError{Path: c.Request.URL.Path})
	}
}

// MethodNotAllowed is the NoMethod handler: the path exists but not for
// this method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(&apperrors.MethodNotAllowedError{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
		})
	}
}
