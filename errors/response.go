package errors

import (
	"fmt"
	"strings"
)

// ErrorResponse is the JSON body returned for every failed request.
// Detail is a string, a list of FieldError, or nil (serialized as null).
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// FieldError describes a single field that failed request validation.
type FieldError struct {
	Location string `json:"location"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// RequestValidationError is raised when inbound data does not satisfy a route's
// schema, before handler logic runs.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "request validation failed: " + strings.Join(parts, "; ")
}

// RouteNotFoundError is synthesized by the router when no handler matches.
type RouteNotFoundError struct {
	Path string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s", e.Path)
}

// MethodNotAllowedError is synthesized by the router when the path exists but
// is not registered for the request method.
type MethodNotAllowedError struct {
	Method string
	Path   string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s", e.Method, e.Path)
}

// ToResponse converts an AppError to its response body.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Kind.Name(),
		Message: e.Message,
		Detail:  optional(e.Detail),
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
