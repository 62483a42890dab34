package config

import (
	"fmt"

	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/validation"
)

// Default values for the service settings.
const (
	DefaultAppName        = "Demo Service"
	DefaultAppDescription = "A demo service with best practices"
	DefaultAppVersion     = "1.0.0"
	DefaultEnvironment    = "development"
	DefaultLogLevel       = "INFO"
	DefaultLogFormat      = "console"
)

// ServiceConfig contains the settings every service reads at start-up.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP server.Config `yaml:"http" mapstructure:"http"`
//	}
type ServiceConfig struct {
	AppName        string `yaml:"app_name" mapstructure:"app_name"`
	AppDescription string `yaml:"app_description" mapstructure:"app_description"`
	AppVersion     string `yaml:"app_version" mapstructure:"app_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	Debug          bool   `yaml:"debug" mapstructure:"debug"`
	LogLevel       string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat      string `yaml:"log_format" mapstructure:"log_format"`
}

// Defaults returns the default value of every ServiceConfig key, for use
// with WithDefaults. Debug defaults to true, which a zero-value bool cannot
// express, so it must come from here.
func Defaults() map[string]any {
	return map[string]any{
		"app_name":        DefaultAppName,
		"app_description": DefaultAppDescription,
		"app_version":     DefaultAppVersion,
		"environment":     DefaultEnvironment,
		"debug":           true,
		"log_level":       DefaultLogLevel,
		"log_format":      DefaultLogFormat,
	}
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies the Config interface.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills empty string fields. Debug is left untouched.
// Override this in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.AppDescription == "" {
		c.AppDescription = DefaultAppDescription
	}
	if c.AppVersion == "" {
		c.AppVersion = DefaultAppVersion
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// Validate validates the base configuration fields.
// Override this in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	err := validation.New().
		Required("app_name", c.AppName).
		Required("app_version", c.AppVersion).
		Validate()
	if err != nil {
		return err
	}
	lc := c.LoggingConfig()
	if err := lc.Validate(); err != nil {
		return fmt.Errorf("config.log: %w", err)
	}
	return nil
}

// LoggingConfig derives the logger configuration.
func (c *ServiceConfig) LoggingConfig() logger.Config {
	lc := logger.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
	}
	lc.ApplyDefaults()
	return lc
}
