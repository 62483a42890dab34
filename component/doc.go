// Package component defines lifecycle-managed parts of the service and the
// registry that starts them in order, stops them in reverse and aggregates
// their health into a single probe for GET /health.
package component
