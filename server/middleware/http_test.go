package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/observability"
	"github.com/kbukum/demoservice/server/middleware"
)

var durationPattern = regexp.MustCompile(`^\d+\.\d{4}s$`)

func newLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// ---------------------------------------------------------------------------
// Timing
// ---------------------------------------------------------------------------

func TestTiming_LogsAndSetsHeader(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Timing(newLogger(&buf), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(middleware.HeaderRequestID, "req-1")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/kettle", http.NoBody))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
	v, err := strconv.ParseFloat(rr.Header().Get(middleware.HeaderProcessTime), 64)
	if err != nil || v < 0 {
		t.Fatalf("X-Process-Time %q is not a non-negative decimal", rr.Header().Get(middleware.HeaderProcessTime))
	}

	recs := records(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(recs))
	}
	entry, exit := recs[0], recs[1]
	if entry["message"] != "Request" || entry["method"] != "GET" || entry["path"] != "/kettle" {
		t.Errorf("unexpected entry record: %v", entry)
	}
	if exit["message"] != "Response" || exit["status"] != float64(418) {
		t.Errorf("unexpected exit record: %v", exit)
	}
	if d, _ := exit["duration"].(string); !durationPattern.MatchString(d) {
		t.Errorf("duration %q should have four decimals", d)
	}
	if exit["request_id"] != "req-1" {
		t.Errorf("expected request_id in exit record, got %v", exit["request_id"])
	}
}

func TestTiming_AbortedHandlerStillRecorded(t *testing.T) {
	var buf bytes.Buffer
	metrics, reader := newMetrics(t)
	handler := middleware.Timing(newLogger(&buf), metrics)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	func() {
		defer func() {
			if r := recover(); r != http.ErrAbortHandler {
				t.Errorf("expected ErrAbortHandler to propagate, got %v", r)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/stream", http.NoBody))
	}()

	recs := records(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(recs))
	}
	exit := recs[1]
	if exit["message"] != "Response" || exit["status"] != float64(500) || exit["aborted"] != true {
		t.Errorf("unexpected exit record: %v", exit)
	}

	if active := sumPoints(t, reader, observability.MetricActiveRequests, "route"); active[""] != 0 {
		t.Errorf("request.active should return to 0, got %v", active)
	}
	if total := sumPoints(t, reader, observability.MetricRequests, "status"); total["500"] != 1 {
		t.Errorf("expected the aborted request counted as 500, got %v", total)
	}
}

func TestTiming_HandlerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	handler := middleware.Timing(newLogger(&buf), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get(middleware.HeaderProcessTime) == "" {
		t.Fatal("expected X-Process-Time even when the handler writes nothing")
	}
}

func TestTiming_HeaderOnImplicitWrite(t *testing.T) {
	handler := middleware.Timing(newLogger(&bytes.Buffer{}), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "body")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Header().Get(middleware.HeaderProcessTime) == "" {
		t.Fatal("expected X-Process-Time when Write commits the header")
	}
	if rr.Body.String() != "body" {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(middleware.HeaderRequestID)
		if logger.RequestIDFromContext(r.Context()) != seen {
			t.Error("request id should be stored in the context")
		}
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if seen == "" || len(seen) != 36 {
		t.Fatalf("expected a generated UUID, got %q", seen)
	}
	if rr.Header().Get(middleware.HeaderRequestID) != seen {
		t.Errorf("response header should echo %q", seen)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.HeaderRequestID); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
}

func TestRequestID_TrimsWhitespace(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "  abc-123\t")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.HeaderRequestID); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
}

func TestRequestID_ReplacesUnsafe(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "<script>alert(1)</script>")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(middleware.HeaderRequestID); strings.Contains(got, "<") || got == "" {
		t.Errorf("unsafe id should be replaced, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_DefaultReflectsOrigin(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	handler := middleware.CORS(&cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("expected origin to be reflected, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials to be allowed")
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Expose-Headers"), middleware.HeaderProcessTime) {
		t.Error("expected X-Process-Time to be exposed")
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	called := false
	handler := middleware.CORS(&cfg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest("OPTIONS", "/health", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if called {
		t.Error("preflight should not reach the handler")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("expected all methods, got %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if rr.Header().Get("Access-Control-Allow-Headers") != "X-Custom" {
		t.Errorf("expected requested headers to be allowed, got %q", rr.Header().Get("Access-Control-Allow-Headers"))
	}
	if rr.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("unexpected max age %q", rr.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{AllowedOrigins: []string{"https://allowed.com"}}
	handler := middleware.CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for disallowed origin")
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := &middleware.CORSConfig{AllowedOrigins: []string{"*"}}
	handler := middleware.CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected *, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit_AppliesLimit(t *testing.T) {
	var readErr error
	handler := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	body := bytes.NewReader(make([]byte, 2048))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", body))

	if readErr == nil {
		t.Fatal("expected an error reading an oversized body")
	}
}

func TestParseBodySize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "10MB", want: 10 << 20},
		{in: "512kb", want: 512 << 10},
		{in: " 1 GB ", want: 1 << 30},
		{in: "2048", want: 2048},
		{in: "64B", want: 64},
		{in: "", wantErr: true},
		{in: "lots", wantErr: true},
		{in: "10abcMB", wantErr: true},
		{in: "0MB", wantErr: true},
		{in: "-5KB", wantErr: true},
		{in: "99999999999GB", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := middleware.ParseBodySize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBodySize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBodySize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestBodySizeLimit_FallsBackOnBadSize(t *testing.T) {
	var n int
	handler := middleware.BodySizeLimit("lots")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		n = len(b)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", bytes.NewReader(make([]byte, 4096))))
	if n != 4096 {
		t.Errorf("expected the 10MB default to admit 4096 bytes, read %d", n)
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

func TestChain_Order(t *testing.T) {
	var order []string

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-before")
			next.ServeHTTP(w, r)
			order = append(order, "m1-after")
		})
	}
	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-before")
			next.ServeHTTP(w, r)
			order = append(order, "m2-after")
		})
	}

	chain := middleware.Chain(m1, m2)
	handler := chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Fatalf("position %d: expected %s, got %s (full: %v)", i, v, order[i], order)
		}
	}
}

// ---------------------------------------------------------------------------
// statusWriter: Flush support
// ---------------------------------------------------------------------------

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestStatusWriter_Flush(t *testing.T) {
	fr := &flushRecorder{ResponseWriter: httptest.NewRecorder()}

	handler := middleware.Timing(newLogger(&bytes.Buffer{}), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))

	handler.ServeHTTP(fr, httptest.NewRequest("GET", "/stream", http.NoBody))

	if !fr.flushed {
		t.Error("expected Flush to be delegated to underlying writer")
	}
	if fr.Header().Get(middleware.HeaderProcessTime) == "" {
		t.Error("expected X-Process-Time to be set before the flush")
	}
}
