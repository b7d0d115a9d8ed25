package auditlog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/db"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// Routes reported for catalog store operations.
const (
	RouteSnapshot = "catalog.snapshot"
	RouteGet      = "catalog.get"
	RouteUpsert   = "catalog.upsert"
	RouteDelete   = "catalog.delete"
)

// store is the decorated catalog store (ISP).
type store interface {
	Snapshot(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Upsert(ctx context.Context, p product.Product) (bool, error)
	Delete(ctx context.Context, id string) error
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// InstrumentedStore records one request record per store operation.
type InstrumentedStore struct {
	inner    store
	requests *RequestLogger
	now      func() time.Time
}

// NewInstrumentedStore wraps inner.
func NewInstrumentedStore(inner store, requests *RequestLogger) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, requests: requests, now: time.Now}
}

// Snapshot implements the catalog store.
func (s *InstrumentedStore) Snapshot(ctx context.Context) ([]product.Product, error) {
	start := s.now()
	out, err := s.inner.Snapshot(ctx)
	s.record(ctx, RouteSnapshot, http.MethodGet, start, http.StatusOK, err)
	return out, err
}

// Get implements the catalog store.
func (s *InstrumentedStore) Get(ctx context.Context, id string) (product.Product, error) {
	start := s.now()
	out, err := s.inner.Get(ctx, id)
	s.record(ctx, RouteGet, http.MethodGet, start, http.StatusOK, err)
	return out, err
}

// Upsert implements the catalog store.
func (s *InstrumentedStore) Upsert(ctx context.Context, p product.Product) (bool, error) {
	start := s.now()
	created, err := s.inner.Upsert(ctx, p)
	ok := http.StatusOK
	if created {
		ok = http.StatusCreated
	}
	s.record(ctx, RouteUpsert, http.MethodPut, start, ok, err)
	return created, err
}

// Delete implements the catalog store.
func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	start := s.now()
	err := s.inner.Delete(ctx, id)
	s.record(ctx, RouteDelete, http.MethodDelete, start, http.StatusNoContent, err)
	return err
}

// HealthCheck delegates when the store supports it. Not audited.
func (s *InstrumentedStore) HealthCheck(ctx context.Context) error {
	if hc, ok := s.inner.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (s *InstrumentedStore) record(ctx context.Context, route, method string, start time.Time, ok int, err error) {
	s.requests.Record(ctx, audit.RequestRecord{
		Timestamp: start.UTC(),
		Route:     route,
		Method:    method,
		Status:    statusFor(ok, err),
		Latency:   s.now().Sub(start),
	})
}

// statusFor maps an operation outcome to an HTTP-like status.
// Failures that never reached the backend yield nil.
func statusFor(ok int, err error) *int {
	var dbErr *db.Error
	switch {
	case err == nil:
		return audit.Status(ok)
	case errors.Is(err, domain.ErrNotFound):
		return audit.Status(http.StatusNotFound)
	case errors.Is(err, domain.ErrReadOnlyCatalog):
		return audit.Status(http.StatusNotImplemented)
	case errors.As(err, &dbErr):
		return audit.Status(http.StatusInternalServerError)
	default:
		return nil
	}
}
