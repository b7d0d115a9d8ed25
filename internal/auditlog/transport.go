package auditlog

import (
	"net/http"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
)

// RoundTripper records every outbound HTTP call.
type RoundTripper struct {
	next     http.RoundTripper
	requests *RequestLogger
	now      func() time.Time
}

// NewRoundTripper wraps next. A nil next uses http.DefaultTransport.
func NewRoundTripper(next http.RoundTripper, requests *RequestLogger) *RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RoundTripper{next: next, requests: requests, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := t.now()
	resp, err := t.next.RoundTrip(req)

	rec := audit.RequestRecord{
		Timestamp: start.UTC(),
		Route:     req.URL.Path,
		Method:    req.Method,
		Latency:   t.now().Sub(start),
	}
	if err == nil {
		rec.Status = audit.Status(resp.StatusCode)
	}
	t.requests.Record(req.Context(), rec)
	return resp, err
}
