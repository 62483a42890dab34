// Package config loads service configuration.
//
// Values come from, in increasing precedence: registered defaults, a
// config.yml file, a .env file and the process environment. Environment
// variable names are matched case-insensitively against the lower-case
// keys of the target struct (APP_NAME sets app_name, HTTP_PORT sets
// http.port).
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("demoservice", &cfg, config.WithDefaults(config.Defaults()))
package config
