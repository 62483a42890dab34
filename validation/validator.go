package validation

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/demoservice/errors"
)

// Validator collects configuration rule failures by dotted config key
// (http.port, telemetry.sample_rate) and reports them together.
//
//	err := validation.New().
//	    Range("http.port", c.Port, 0, 65535).
//	    Fraction("telemetry.sample_rate", c.SampleRate).
//	    Validate()
type Validator struct {
	failures []apperrors.FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Check records message against key unless ok holds.
func (v *Validator) Check(ok bool, key, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperrors.FieldError{
			Field:   key,
			Message: message,
			Type:    "value_error",
		})
	}
	return v
}

// Required fails on empty or blank strings.
func (v *Validator) Required(key, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", key, "is required")
}

// Range requires lo <= value <= hi.
func (v *Validator) Range(key string, value, lo, hi int) *Validator {
	return v.Check(value >= lo && value <= hi, key, fmt.Sprintf("must be between %d and %d", lo, hi))
}

// Min requires value >= lo.
func (v *Validator) Min(key string, value, lo int) *Validator {
	return v.Check(value >= lo, key, fmt.Sprintf("must be at least %d", lo))
}

// Fraction requires a ratio such as a sample rate to lie in [0, 1].
func (v *Validator) Fraction(key string, value float64) *Validator {
	return v.Check(value >= 0 && value <= 1, key, "must be between 0 and 1")
}

// OneOf requires value to be one of allowed. Empty values pass.
func (v *Validator) OneOf(key, value string, allowed ...string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.Check(false, key, "must be one of: "+strings.Join(allowed, ", "))
}

// Failures returns the recorded failures in the order they were found.
func (v *Validator) Failures() []apperrors.FieldError {
	return v.failures
}

// Validate returns a ValidationError whose message lists every failing key,
// or nil.
func (v *Validator) Validate() error {
	if len(v.failures) == 0 {
		return nil
	}
	parts := make([]string, len(v.failures))
	for i, f := range v.failures {
		parts[i] = f.Field + ": " + f.Message
	}
	return apperrors.Validation(strings.Join(parts, "; "))
}
