// Package snapcache caches catalog snapshots in front of a product store.
package snapcache

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

const snapshotKey = "snapshot"

// store is the consumer interface for the cached catalog (ISP).
type store interface {
	Snapshot(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Upsert(ctx context.Context, p product.Product) (bool, error)
	Delete(ctx context.Context, id string) error
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Cache serves snapshots from memory for ttl and collapses concurrent loads.
// Point reads and writes pass through; callers drop the cache with Invalidate.
type Cache struct {
	inner      store
	lru        *expirable.LRU[string, []product.Product]
	group      singleflight.Group
	generation atomic.Uint64
	cacheTotal *prometheus.CounterVec
	size       prometheus.Gauge
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		inner:      inner,
		lru:        expirable.NewLRU[string, []product.Product](1, nil, ttl),
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithSizeGauge reports the product count of every loaded snapshot to g.
func (c *Cache) WithSizeGauge(g prometheus.Gauge) *Cache {
	c.size = g
	return c
}

// Snapshot returns the cached catalog or loads it once for all concurrent callers.
// Every caller receives its own slice.
func (c *Cache) Snapshot(ctx context.Context) ([]product.Product, error) {
	if snap, ok := c.lru.Get(snapshotKey); ok {
		c.incCache("hit")
		return slices.Clone(snap), nil
	}
	c.incCache("miss")

	gen := c.generation.Load()
	ch := c.group.DoChan(snapshotKey, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		snap, err := c.inner.Snapshot(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.size != nil {
			c.size.Set(float64(len(snap)))
		}
		if c.generation.Load() == gen {
			c.lru.Add(snapshotKey, snap)
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for snapshot: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]product.Product)), nil
	}
}

// Get passes through to the store.
func (c *Cache) Get(ctx context.Context, id string) (product.Product, error) {
	return c.inner.Get(ctx, id)
}

// Upsert passes through to the store.
func (c *Cache) Upsert(ctx context.Context, p product.Product) (bool, error) {
	return c.inner.Upsert(ctx, p)
}

// Delete passes through to the store.
func (c *Cache) Delete(ctx context.Context, id string) error {
	return c.inner.Delete(ctx, id)
}

// HealthCheck delegates when the store supports it.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Invalidate drops the cached snapshot. Loads already in flight are not cached.
func (c *Cache) Invalidate() {
	c.generation.Add(1)
	c.group.Forget(snapshotKey)
	c.lru.Purge()
	c.logger.Debug("catalog snapshot cache invalidated")
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
