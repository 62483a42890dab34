package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/demoservice/logger"
)

func newTestTranslator(debug bool) (*Translator, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	return NewTranslator(debug, log), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", raw)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestTranslator_Dispatch_Table(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		wire    string
		message string
		detail  any
		level   string
	}{
		{"generic", New("").WithDetail("d"), http.StatusInternalServerError, "ApplicationError", "An error occurred", "d", "error"},
		{"service unavailable", ServiceUnavailable(""), http.StatusServiceUnavailable, "ServiceUnavailableError", "Service is currently unavailable", nil, "error"},
		{"resource not found", NotFound("no user"), http.StatusNotFound, "ResourceNotFoundError", "no user", nil, "warn"},
		{"validation", Validation(""), http.StatusUnprocessableEntity, "ValidationError", "Validation failed", nil, "warn"},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFound("")), http.StatusNotFound, "ResourceNotFoundError", "Resource not found", nil, "warn"},
		{"route not found", &RouteNotFoundError{Path: "/nonexistent"}, http.StatusNotFound, "NotFoundError", "Endpoint not found", "The requested endpoint /nonexistent does not exist", "warn"},
		{"method not allowed", &MethodNotAllowedError{Method: "POST", Path: "/health"}, http.StatusMethodNotAllowed, "MethodNotAllowedError", "Method not allowed", "Method POST is not allowed for /health", "warn"},
		{"unexpected fault", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "InternalServerError", "An internal error occurred", nil, "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, buf := newTestTranslator(false)
			status, body := tr.Translate(context.Background(), tc.err)

			if status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, status)
			}
			if body.Error != tc.wire {
				t.Errorf("expected error %q, got %q", tc.wire, body.Error)
			}
			if body.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, body.Message)
			}
			if body.Detail != tc.detail {
				t.Errorf("expected detail %v, got %v", tc.detail, body.Detail)
			}

			lines := logLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("expected exactly one log record, got %d", len(lines))
			}
			if lines[0]["level"] != tc.level {
				t.Errorf("expected level %q, got %v", tc.level, lines[0]["level"])
			}
			if lines[0]["error"] != tc.wire {
				t.Errorf("expected logged kind %q, got %v", tc.wire, lines[0]["error"])
			}
		})
	}
}

func TestTranslator_LogCarriesRequestID(t *testing.T) {
	tr, buf := newTestTranslator(false)
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")

	tr.Translate(ctx, NotFound("no user"))
	tr.Translate(context.Background(), NotFound("no user"))

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["request_id"] != "req-42" {
		t.Errorf("expected request_id on the error log, got %v", lines[0])
	}
	if _, ok := lines[1]["request_id"]; ok {
		t.Errorf("unexpected request_id without one in context: %v", lines[1])
	}
}

func TestTranslator_RequestValidation(t *testing.T) {
	tr, _ := newTestTranslator(false)
	fields := []FieldError{{Location: "query", Field: "unit", Message: "must be one of: human bytes", Type: "oneof"}}

	status, body := tr.Translate(context.Background(), &RequestValidationError{Fields: fields})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if body.Error != "RequestValidationError" || body.Message != "Invalid request data" {
		t.Errorf("unexpected body: %+v", body)
	}
	got, ok := body.Detail.([]FieldError)
	if !ok || len(got) != 1 || got[0].Field != "unit" {
		t.Errorf("expected field error list, got %#v", body.Detail)
	}
}

func TestTranslator_DebugExposesFaultDetail(t *testing.T) {
	fault := fmt.Errorf("simulated fault")

	tr, _ := newTestTranslator(false)
	_, body := tr.Translate(context.Background(), fault)
	if body.Detail != nil {
		t.Errorf("expected nil detail without debug, got %v", body.Detail)
	}

	tr, _ = newTestTranslator(true)
	_, body = tr.Translate(context.Background(), fault)
	if body.Detail != "simulated fault" {
		t.Errorf("expected fault detail with debug, got %v", body.Detail)
	}
}

func TestTranslator_BodyHasExactlyThreeFields(t *testing.T) {
	tr, _ := newTestTranslator(false)
	_, body := tr.Translate(context.Background(), fmt.Errorf("x"))

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("expected 3 fields, got %v", m)
	}
	if v, ok := m["detail"]; !ok || v != nil {
		t.Errorf("expected detail present and null, got %v", m["detail"])
	}
}

func TestTranslator_NilError(t *testing.T) {
	tr, _ := newTestTranslator(true)
	status, body := tr.Translate(context.Background(), nil)
	if status != http.StatusInternalServerError || body.Error != "InternalServerError" {
		t.Errorf("unexpected translation of nil: %d %+v", status, body)
	}
}

type panickyError struct{}

func (panickyError) Error() string { panic("Error() exploded") }

func TestTranslator_NeverPanics(t *testing.T) {
	tr, _ := newTestTranslator(true)
	status, body := tr.Translate(context.Background(), panickyError{})
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != "InternalServerError" || body.Detail != nil {
		t.Errorf("expected generic 500 body without detail, got %+v", body)
	}
}

func TestTranslator_OnFaultOnlyForUnexpected(t *testing.T) {
	tr, _ := newTestTranslator(false)
	var reported []error
	tr.OnFault = func(_ context.Context, err error) { reported = append(reported, err) }

	tr.Translate(context.Background(), NotFound(""))
	tr.Translate(context.Background(), &RouteNotFoundError{Path: "/x"})
	fault := fmt.Errorf("boom")
	tr.Translate(context.Background(), fault)

	if len(reported) != 1 || reported[0] != fault {
		t.Fatalf("expected only the unexpected fault to be reported, got %v", reported)
	}
}

func TestTranslator_NilLoggerUsesGlobal(t *testing.T) {
	tr := &Translator{}
	status, _ := tr.Translate(context.Background(), Validation(""))
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", status)
	}
}
