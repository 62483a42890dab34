package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const defaultMaxBodySize = 10 << 20

var sizeUnits = []struct {
	suffix string
	shift  uint
}{
	{"GB", 30},
	{"MB", 20},
	{"KB", 10},
	{"B", 0},
}

// ParseBodySize parses a body limit such as "10MB", "512kb", "1GB" or a
// plain byte count. Units are binary. The result is always positive.
func ParseBodySize(s string) (int64, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	var shift uint
	for _, u := range sizeUnits {
		if strings.HasSuffix(raw, u.suffix) {
			raw, shift = strings.TrimSpace(strings.TrimSuffix(raw, u.suffix)), u.shift
			break
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 || n > (1<<62)>>shift {
		return 0, fmt.Errorf("invalid body size %q", s)
	}
	return n << shift, nil
}

// BodySizeLimit returns middleware that caps the request body at maxSize.
// An empty or unparsable size falls back to 10MB; Config.Validate rejects
// bad sizes before a server is built.
func BodySizeLimit(maxSize string) Middleware {
	size, err := ParseBodySize(maxSize)
	if err != nil {
		size = defaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
