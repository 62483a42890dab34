package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/demoservice/errors"
)

// Request locations reported in FieldError.Location.
const (
	LocationQuery = "query"
	LocationBody  = "body"
	LocationPath  = "path"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their wire names: json, then form, then snake_case.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
	})
	return validate
}

// Validate validates a struct using `validate` tags and reports failures as
// a RequestValidationError whose fields carry the given location.
func Validate(s any, location string) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &apperrors.RequestValidationError{Fields: []apperrors.FieldError{{
			Location: location,
			Field:    location,
			Message:  err.Error(),
			Type:     "invalid",
		}}}
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Location: location,
			Field:    e.Field(),
			Message:  formatValidationError(e),
			Type:     e.Tag(),
		})
	}
	return &apperrors.RequestValidationError{Fields: fields}
}

// BindQuery decodes the query string into dst and validates it. Decoding
// failures (e.g. "abc" for an int) are reported as RequestValidationError
// like any other schema failure.
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindWith(dst, binding.Query); err != nil {
		return &apperrors.RequestValidationError{Fields: []apperrors.FieldError{{
			Location: LocationQuery,
			Field:    LocationQuery,
			Message:  err.Error(),
			Type:     "type_error",
		}}}
	}
	return Validate(dst, LocationQuery)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
