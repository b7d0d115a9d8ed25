// Package auditlog emits search decisions and outbound data requests as
// structured audit records.
package auditlog

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/ongsearch/internal/domain/actor"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
)

// Sink receives audit records. Emit must not block for long and never fails.
type Sink interface {
	Emit(rec audit.Record)
}

// NopSink drops every record.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(audit.Record) {}

// ZapSink writes records as flat JSON objects through a zap logger,
// typically one built by logger.NewAuditLogger.
type ZapSink struct {
	log      *zap.Logger
	fallback *zap.Logger
}

// NewZapSink creates a sink. fallback receives a warning if emission panics; it may be nil.
func NewZapSink(log, fallback *zap.Logger) *ZapSink {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &ZapSink{log: log, fallback: fallback}
}

// Emit implements Sink. Absent optional fields are written as null.
func (s *ZapSink) Emit(rec audit.Record) {
	defer func() {
		if r := recover(); r != nil {
			s.fallback.Warn("audit emit panicked", zap.Any("panic", r))
		}
	}()

	fields := []zap.Field{
		zap.String("type", rec.Type()),
		zap.String("timestamp", rec.When().UTC().Format(time.RFC3339Nano)),
	}

	switch r := rec.(type) {
	case audit.DecisionRecord:
		fields = append(fields,
			zap.String("inputText", r.InputText),
			filtersField(r.Filters),
			zap.Bool("aiSuccess", r.AISuccess),
			zap.Bool("fallbackApplied", r.FallbackApplied),
		)
	case audit.RequestRecord:
		fields = append(fields,
			zap.String("route", r.Route),
			zap.String("method", r.Method),
			zap.Intp("status", r.Status),
			zap.Int64("latency", r.LatencyMillis()),
			zap.Object("identifiers", identifiers(r.Actor)),
		)
	}

	s.log.Info("", fields...)
}

func filtersField(in *interpretation.Interpretation) zap.Field {
	if in == nil {
		return zap.Reflect("filters", nil)
	}
	return zap.Object("filters", filters(*in))
}

type filters interpretation.Interpretation

func (f filters) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if f.Category != nil {
		enc.AddString("category", *f.Category)
	} else {
		_ = enc.AddReflected("category", nil)
	}
	if f.PriceMax != nil {
		enc.AddFloat64("priceMax", *f.PriceMax)
	} else {
		_ = enc.AddReflected("priceMax", nil)
	}
	if f.PriceMin != nil {
		enc.AddFloat64("priceMin", *f.PriceMin)
	} else {
		_ = enc.AddReflected("priceMin", nil)
	}
	enc.AddString("raw", f.Raw)
	return nil
}

type identifiers actor.Actor

func (a identifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	addOptional(enc, "userId", a.UserID)
	addOptional(enc, "organization_id", a.OrganizationID)
	return nil
}

func addOptional(enc zapcore.ObjectEncoder, key, val string) {
	if val == "" {
		_ = enc.AddReflected(key, nil)
		return
	}
	enc.AddString(key, val)
}
