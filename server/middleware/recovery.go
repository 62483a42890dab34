package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/demoservice/errors"
)

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recovery returns a Gin middleware that turns a handler panic into an
// unexpected fault and writes the translated response. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func Recovery(t *apperrors.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			fault := &PanicError{Value: rec, Stack: debug.Stack()}
			if c.Writer.Written() {
				t.Translate(c.Request.Context(), fault)
				c.Abort()
				return
			}
			status, body := t.Translate(c.Request.Context(), fault)
			c.AbortWithStatusJSON(status, body)
		}()
		c.Next()
	}
}
