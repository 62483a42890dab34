package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// allMethods is what a "*" method list expands to in preflight responses.
var allMethods = []string{
	http.MethodDelete, http.MethodGet, http.MethodHead, http.MethodOptions,
	http.MethodPatch, http.MethodPost, http.MethodPut,
}

// CORSConfig holds CORS middleware configuration. "*" in a list allows
// every value.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" mapstructure:"max_age"`
}

// DefaultCORSConfig allows every origin, method and header with credentials.
// This is a development setting and is not safe for production: restrict
// AllowedOrigins before exposing the service publicly.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderProcessTime, HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS returns middleware that sets CORS headers and answers preflight
// requests. Requests from disallowed origins pass through untouched.
func CORS(cfg *CORSConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !isAllowedOrigin(origin, cfg.AllowedOrigins) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", allowOriginValue(origin, cfg))
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if isPreflight(r) {
				setPreflightHeaders(h, r, cfg)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(cfg.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposedHeaders, ", "))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func setPreflightHeaders(h http.Header, r *http.Request, cfg *CORSConfig) {
	methods := cfg.AllowedMethods
	if slices.Contains(methods, "*") {
		methods = allMethods
	}
	if len(methods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
	}

	if slices.Contains(cfg.AllowedHeaders, "*") {
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		}
	} else if len(cfg.AllowedHeaders) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	}

	if cfg.MaxAge > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	}
}

// allowOriginValue echoes the origin when credentials are on, since
// browsers reject a literal "*" on credentialed requests.
func allowOriginValue(origin string, cfg *CORSConfig) string {
	if slices.Contains(cfg.AllowedOrigins, "*") && !cfg.AllowCredentials {
		return "*"
	}
	return origin
}

func isAllowedOrigin(origin string, allowed []string) bool {
	for _, a := range allowed {
		if origin == a || a == "*" {
			return true
		}
	}
	return false
}
