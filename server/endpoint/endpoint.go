package endpoint

import "context"

// Paths of the documentation surface advertised by the root endpoint.
const (
	DocsURL   = "/docs"
	HealthURL = "/health"
)

// ServiceInfo is the immutable service identity handed to every endpoint.
type ServiceInfo struct {
	Name        string
	Version     string
	Description string
	Environment string
}

// HealthProbe reports whether the service can serve traffic. A nil probe
// always passes. Returning an errors.ServiceUnavailable AppError yields 503;
// any other error is treated as an unexpected fault.
type HealthProbe func(ctx context.Context) error
