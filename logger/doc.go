// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, case-insensitive level names
// (including WARNING and CRITICAL), and component-scoped loggers with
// structured fields.
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "info", Format: "json"}, "demoservice")
//	log.Info("Request", logger.Fields("method", "GET", "path", "/health"))
package logger
