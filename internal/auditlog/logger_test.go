package auditlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
)

type memSink struct {
	mu      sync.Mutex
	records []audit.Record
}

func (s *memSink) Emit(rec audit.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *memSink) requests() []audit.RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.RequestRecord
	for _, r := range s.records {
		if rr, ok := r.(audit.RequestRecord); ok {
			out = append(out, rr)
		}
	}
	return out
}

func TestDecisionLogger_StampsTimestamp(t *testing.T) {
	sink := &memSink{}
	l := NewDecisionLogger(sink)
	l.now = func() time.Time { return ts }

	l.RecordDecision(context.Background(), audit.DecisionRecord{InputText: "doces"})
	explicit := ts.Add(time.Hour)
	l.RecordDecision(context.Background(), audit.DecisionRecord{InputText: "x", Timestamp: explicit})

	require.Len(t, sink.records, 2)
	assert.Equal(t, ts, sink.records[0].When())
	assert.Equal(t, explicit, sink.records[1].When())
}

func TestRequestLogger_FillsActorFromContext(t *testing.T) {
	sink := &memSink{}
	l := NewRequestLogger(sink)
	ctx := actor.WithActor(context.Background(), actor.Actor{UserID: "u-1", OrganizationID: "org-1"})

	l.Record(ctx, audit.RequestRecord{Route: "/r", Method: "GET"})

	got := sink.requests()
	require.Len(t, got, 1)
	assert.Equal(t, "org-1", got[0].Actor.OrganizationID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestNilSinkIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		NewDecisionLogger(nil).RecordDecision(context.Background(), audit.DecisionRecord{})
		NewRequestLogger(nil).Record(context.Background(), audit.RequestRecord{})
	})
}
