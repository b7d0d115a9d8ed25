package auditlog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
	"github.com/kailas-cloud/ongsearch/internal/logger"
)

var ts = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func emitOne(t *testing.T, rec audit.Record) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	NewZapSink(logger.NewAuditLoggerTo(&buf), nil).Emit(rec)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	return m
}

func TestZapSink_DecisionWithFilters(t *testing.T) {
	cat, ceiling := "Higiene", 50.0
	m := emitOne(t, audit.DecisionRecord{
		Timestamp:       ts,
		InputText:       "higiene até 50 reais",
		Filters:         &interpretation.Interpretation{Category: &cat, PriceMax: &ceiling, Raw: "higiene até 50 reais"},
		AISuccess:       true,
		FallbackApplied: false,
	})

	assert.Equal(t, "search_ai", m["type"])
	assert.Equal(t, "2025-03-01T12:00:00Z", m["timestamp"])
	assert.Equal(t, "higiene até 50 reais", m["inputText"])
	assert.Equal(t, true, m["aiSuccess"])
	assert.Equal(t, false, m["fallbackApplied"])

	filters, ok := m["filters"].(map[string]any)
	require.True(t, ok, "filters = %v", m["filters"])
	assert.Equal(t, "Higiene", filters["category"])
	assert.Equal(t, 50.0, filters["priceMax"])
	assert.Contains(t, filters, "priceMin")
	assert.Nil(t, filters["priceMin"])
	assert.Equal(t, "higiene até 50 reais", filters["raw"])
}

func TestZapSink_DecisionFallbackHasNullFilters(t *testing.T) {
	m := emitOne(t, audit.DecisionRecord{Timestamp: ts, InputText: "xyz", FallbackApplied: true})
	assert.Contains(t, m, "filters")
	assert.Nil(t, m["filters"])
	assert.Equal(t, false, m["aiSuccess"])
}

func TestZapSink_Request(t *testing.T) {
	m := emitOne(t, audit.RequestRecord{
		Timestamp: ts,
		Route:     "/api/public/catalog",
		Method:    "GET",
		Status:    audit.Status(200),
		Latency:   42 * time.Millisecond,
		Actor:     actor.Actor{UserID: "u-1"},
	})

	assert.Equal(t, "request", m["type"])
	assert.Equal(t, "/api/public/catalog", m["route"])
	assert.Equal(t, "GET", m["method"])
	assert.Equal(t, 200.0, m["status"])
	assert.Equal(t, 42.0, m["latency"])

	ids, ok := m["identifiers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u-1", ids["userId"])
	assert.Contains(t, ids, "organization_id")
	assert.Nil(t, ids["organization_id"])
}

func TestZapSink_RequestTransportFailureHasNullStatus(t *testing.T) {
	m := emitOne(t, audit.RequestRecord{Timestamp: ts, Route: "/x", Method: "GET"})
	assert.Contains(t, m, "status")
	assert.Nil(t, m["status"])
}

type panicCore struct{ zapcore.Core }

func (panicCore) Enabled(zapcore.Level) bool { return true }

func (c panicCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(e, c)
}

func (panicCore) Write(zapcore.Entry, []zapcore.Field) error { panic("disk on fire") }

func TestZapSink_RecoversPanics(t *testing.T) {
	s := NewZapSink(zap.New(panicCore{}), nil)
	assert.NotPanics(t, func() {
		s.Emit(audit.DecisionRecord{Timestamp: ts})
	})
}
