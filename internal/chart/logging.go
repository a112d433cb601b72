package chart

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id logged for each outbound request.
const RequestIDHeader = "X-Request-ID"

// loggingTransport logs each outbound request as one structured line with
// method, host, path, status, duration and a per-request id.
type loggingTransport struct {
	next http.RoundTripper
	log  *slog.Logger
}

// NewLoggingTransport wraps next so that every round trip is logged via log.
// A nil next uses http.DefaultTransport.
func NewLoggingTransport(next http.RoundTripper, log *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := t.next.RoundTrip(req)

	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", id,
	}
	if err != nil {
		t.log.WarnContext(req.Context(), "chart request failed", append(attrs, "error", err)...)
		return nil, err
	}
	t.log.InfoContext(req.Context(), "chart request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
