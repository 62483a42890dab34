package logger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	validFormats := []string{"json", "console", "text", FormatPretty}
	if !slices.Contains(validFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}

// levelAliases maps the conventional names used by other runtimes and by
// operators (e.g. LOG_LEVEL=WARNING) onto zerolog levels.
var levelAliases = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"critical": zerolog.FatalLevel,
	"fatal":    zerolog.FatalLevel,
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(level string) (zerolog.Level, error) {
	if lvl, ok := levelAliases[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
}
