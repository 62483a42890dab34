package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Constructors_DefaultMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		kind    Kind
		message string
		wire    string
	}{
		{"Generic", New(""), KindGeneric, "An error occurred", "ApplicationError"},
		{"ServiceUnavailable", ServiceUnavailable(""), KindServiceUnavailable, "Service is currently unavailable", "ServiceUnavailableError"},
		{"NotFound", NotFound(""), KindResourceNotFound, "Resource not found", "ResourceNotFoundError"},
		{"Validation", Validation(""), KindValidation, "Validation failed", "ValidationError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Kind != tc.kind {
				t.Errorf("expected kind %v, got %v", tc.kind, tc.err.Kind)
			}
			if tc.err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.err.Message)
			}
			if tc.err.Detail != "" {
				t.Errorf("expected no detail, got %q", tc.err.Detail)
			}
			if tc.err.Kind.Name() != tc.wire {
				t.Errorf("expected wire name %q, got %q", tc.wire, tc.err.Kind.Name())
			}
		})
	}
}

func TestAppError_CustomMessage(t *testing.T) {
	err := ServiceUnavailable("database unreachable")
	if err.Message != "database unreachable" {
		t.Errorf("expected custom message, got %q", err.Message)
	}
}

func TestAppError_StructuralEquality(t *testing.T) {
	a := NotFound("user 1").WithDetail("looked in cache")
	b := NotFound("user 1").WithDetail("looked in cache")
	if *a != *b {
		t.Error("expected errors with equal fields to be equal")
	}
	if *a == *NotFound("user 2") {
		t.Error("expected errors with different messages to differ")
	}
}

func TestAppError_WithDetail_ReturnsCopy(t *testing.T) {
	orig := Validation("")
	withDetail := orig.WithDetail("name too short")

	if orig.Detail != "" {
		t.Errorf("original must not be mutated, got detail %q", orig.Detail)
	}
	if withDetail.Detail != "name too short" {
		t.Errorf("expected detail on copy, got %q", withDetail.Detail)
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := ServiceUnavailable("").WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := NotFound("user missing").WithDetail("id=5").Error()
	for _, part := range []string{"ResourceNotFoundError", "user missing", "id=5"} {
		if !strings.Contains(s, part) {
			t.Errorf("expected %q in %q", part, s)
		}
	}
}

func TestAppError_ToResponse(t *testing.T) {
	resp := NotFound("").ToResponse()
	if resp.Error != "ResourceNotFoundError" || resp.Message != "Resource not found" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Detail != nil {
		t.Errorf("expected nil detail, got %v", resp.Detail)
	}

	resp = New("").WithDetail("boom").ToResponse()
	if resp.Detail != "boom" {
		t.Errorf("expected detail boom, got %v", resp.Detail)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Validation("bad"))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Kind != KindValidation {
		t.Errorf("expected validation kind, got %v", got.Kind)
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError for wrapped error")
	}
	if !IsKind(wrapped, KindValidation) || IsKind(wrapped, KindGeneric) {
		t.Error("IsKind mismatch")
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestKind_UnknownFallsBackToGeneric(t *testing.T) {
	k := Kind(99)
	if k.Name() != "ApplicationError" {
		t.Errorf("expected generic name, got %q", k.Name())
	}
	if k.DefaultMessage() != "An error occurred" {
		t.Errorf("expected generic message, got %q", k.DefaultMessage())
	}
}

func TestBoundaryErrors_Messages(t *testing.T) {
	if got := (&RouteNotFoundError{Path: "/x"}).Error(); !strings.Contains(got, "/x") {
		t.Errorf("expected path in %q", got)
	}
	if got := (&MethodNotAllowedError{Method: "POST", Path: "/health"}).Error(); !strings.Contains(got, "POST") {
		t.Errorf("expected method in %q", got)
	}
	reqErr := &RequestValidationError{Fields: []FieldError{{Field: "unit", Message: "is invalid"}}}
	if !strings.Contains(reqErr.Error(), "unit: is invalid") {
		t.Errorf("unexpected message %q", reqErr.Error())
	}
}
