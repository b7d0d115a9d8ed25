package audit

import (
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
)

// Record type discriminators.
const (
	TypeRequest  = "request"
	TypeSearchAI = "search_ai"
)

// Record is any append-only audit entry.
type Record interface {
	Type() string
	When() time.Time
}

// DecisionRecord captures how one search was resolved.
type DecisionRecord struct {
	Timestamp       time.Time
	InputText       string
	Filters         *interpretation.Interpretation // nil when fallback ran
	AISuccess       bool
	FallbackApplied bool
}

// Type returns the record discriminator.
func (DecisionRecord) Type() string { return TypeSearchAI }

// When returns the record timestamp.
func (r DecisionRecord) When() time.Time { return r.Timestamp }

// RequestRecord captures one outbound data operation.
type RequestRecord struct {
	Timestamp time.Time
	Route     string
	Method    string
	Status    *int // nil on transport failure
	Latency   time.Duration
	Actor     actor.Actor
}

// Type returns the record discriminator.
func (RequestRecord) Type() string { return TypeRequest }

// When returns the record timestamp.
func (r RequestRecord) When() time.Time { return r.Timestamp }

// LatencyMillis returns the latency in whole milliseconds.
func (r RequestRecord) LatencyMillis() int64 { return r.Latency.Milliseconds() }

// Status is a helper for building RequestRecord.Status.
func Status(code int) *int { return &code }
