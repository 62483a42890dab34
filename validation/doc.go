// Package validation checks inbound request data.
//
// Struct tag validation (go-playground/validator) reports schema failures as
// errors.RequestValidationError, which the error translator turns into a 422
// response listing each failing field.
//
//	type Query struct {
//	    Unit string `form:"unit" validate:"omitempty,oneof=human bytes"`
//	}
//	var q Query
//	if err := validation.BindQuery(c, &q); err != nil {
//	    _ = c.Error(err)
//	    return
//	}
//
// The programmatic Validator checks configuration by dotted key and reports
// every failure in a single ValidationError.
//
//	err := validation.New().Range("http.port", port, 0, 65535).Validate()
package validation
