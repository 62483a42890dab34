// Package bootstrap runs a service: it validates the typed config, sets up
// the logger, starts registered components in order, runs lifecycle hooks,
// waits for SIGINT/SIGTERM and shuts everything down within a timeout.
package bootstrap
