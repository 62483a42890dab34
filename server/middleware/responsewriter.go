package middleware

import "net/http"

// statusWriter wraps http.ResponseWriter to capture the status code.
// It delegates Flush and Unwrap so HTTP/2 streaming works correctly.
//
// beforeCommit, when set, runs exactly once just before the header is sent,
// which is the last moment response headers can still be changed.
type statusWriter struct {
	http.ResponseWriter
	status       int
	wroteHeader  bool
	beforeCommit func(http.Header)
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) commit(code int) {
	if sw.wroteHeader {
		return
	}
	sw.status = code
	sw.wroteHeader = true
	if sw.beforeCommit != nil {
		sw.beforeCommit(sw.Header())
	}
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.wroteHeader {
		sw.ResponseWriter.WriteHeader(code)
		return
	}
	sw.commit(code)
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.commit(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// Flush implements http.Flusher, required for streaming responses.
func (sw *statusWriter) Flush() {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter so http.ResponseController
// can discover optional interfaces on the original writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
