package auditlog

import (
	"context"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
)

// DecisionLogger records how each search was resolved.
type DecisionLogger struct {
	sink Sink
	now  func() time.Time
}

// NewDecisionLogger creates a decision logger. A nil sink drops records.
func NewDecisionLogger(sink Sink) *DecisionLogger {
	if sink == nil {
		sink = NopSink{}
	}
	return &DecisionLogger{sink: sink, now: time.Now}
}

// RecordDecision emits rec, stamping the timestamp when unset.
func (l *DecisionLogger) RecordDecision(_ context.Context, rec audit.DecisionRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now().UTC()
	}
	l.sink.Emit(rec)
}

// RequestLogger records outbound data operations.
type RequestLogger struct {
	sink Sink
	now  func() time.Time
}

// NewRequestLogger creates a request logger. A nil sink drops records.
func NewRequestLogger(sink Sink) *RequestLogger {
	if sink == nil {
		sink = NopSink{}
	}
	return &RequestLogger{sink: sink, now: time.Now}
}

// Record emits rec. Timestamp and actor are filled from the clock and ctx when unset.
func (l *RequestLogger) Record(ctx context.Context, rec audit.RequestRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now().UTC()
	}
	if rec.Actor.IsZero() {
		rec.Actor = actor.FromContext(ctx)
	}
	l.sink.Emit(rec)
}
