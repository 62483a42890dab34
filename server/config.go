package server

import (
	"cmp"

	"github.com/kbukum/demoservice/server/middleware"
	"github.com/kbukum/demoservice/validation"
)

// Default server settings.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultReadTimeout     = 15
	DefaultWriteTimeout    = 15
	DefaultIdleTimeout     = 60
	DefaultShutdownTimeout = 5
	DefaultMaxBodySize     = "10MB"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string                `yaml:"host" mapstructure:"host"`
	Port            int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout     int                   `yaml:"read_timeout" mapstructure:"read_timeout"`         // seconds
	WriteTimeout    int                   `yaml:"write_timeout" mapstructure:"write_timeout"`       // seconds
	IdleTimeout     int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`         // seconds
	ShutdownTimeout int                   `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
	MaxBodySize     string                `yaml:"max_body_size" mapstructure:"max_body_size"`       // e.g. "10MB"
	CORS            middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets default values for unset fields. An empty CORS origin
// list is replaced by the permissive development policy.
func (c *Config) ApplyDefaults() {
	c.Host = cmp.Or(c.Host, DefaultHost)
	c.Port = cmp.Or(c.Port, DefaultPort)
	c.ReadTimeout = cmp.Or(c.ReadTimeout, DefaultReadTimeout)
	c.WriteTimeout = cmp.Or(c.WriteTimeout, DefaultWriteTimeout)
	c.IdleTimeout = cmp.Or(c.IdleTimeout, DefaultIdleTimeout)
	c.ShutdownTimeout = cmp.Or(c.ShutdownTimeout, DefaultShutdownTimeout)
	c.MaxBodySize = cmp.Or(c.MaxBodySize, DefaultMaxBodySize)

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS = middleware.DefaultCORSConfig()
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New().
		Range("http.port", c.Port, 0, 65535).
		Min("http.read_timeout", c.ReadTimeout, 0).
		Min("http.write_timeout", c.WriteTimeout, 0).
		Min("http.idle_timeout", c.IdleTimeout, 0).
		Min("http.shutdown_timeout", c.ShutdownTimeout, 0).
		Min("http.cors.max_age", c.CORS.MaxAge, 0)
	if c.MaxBodySize != "" {
		_, err := middleware.ParseBodySize(c.MaxBodySize)
		v.Check(err == nil, "http.max_body_size", "must be a size such as 10MB")
	}
	return v.Validate()
}
