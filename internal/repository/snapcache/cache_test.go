package snapcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

type fakeStore struct {
	mu       sync.Mutex
	products []product.Product
	err      error
	loads    atomic.Int32
	block    chan struct{}
	pingErr  error
}

func (f *fakeStore) Snapshot(_ context.Context) ([]product.Product, error) {
	f.loads.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]product.Product(nil), f.products...), nil
}

func (f *fakeStore) Get(_ context.Context, id string) (product.Product, error) {
	return product.Reconstruct(product.Attrs{ID: id}), nil
}

func (f *fakeStore) Upsert(_ context.Context, p product.Product) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, p)
	return true, nil
}

func (f *fakeStore) Delete(context.Context, string) error { return nil }

func (f *fakeStore) HealthCheck(context.Context) error { return f.pingErr }

func mk(id string) product.Product {
	return product.Reconstruct(product.Attrs{ID: id, Name: id, WeightGrams: 1})
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func TestSnapshot_HitAfterMiss(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a"), mk("b")}}
	counter := newCounter()
	c := New(src, time.Minute, counter, nil)

	first, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, second, 2)
	assert.Equal(t, first[0].ID(), second[0].ID())
	assert.EqualValues(t, 1, src.loads.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("miss")))
}

func TestSnapshot_CallersGetIndependentSlices(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a")}}
	c := New(src, time.Minute, nil, nil)

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	snap[0] = mk("mutated")

	again, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].ID())
}

func TestSnapshot_Expires(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a")}}
	c := New(src, 10*time.Millisecond, nil, nil)

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, src.loads.Load())
}

func TestSnapshot_ErrorNotCached(t *testing.T) {
	boom := errors.New("connection refused")
	src := &fakeStore{err: boom}
	c := New(src, time.Minute, nil, nil)

	_, err := c.Snapshot(context.Background())
	assert.ErrorIs(t, err, boom)

	src.mu.Lock()
	src.err = nil
	src.products = []product.Product{mk("a")}
	src.mu.Unlock()

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestSnapshot_ConcurrentLoadsCollapse(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a")}, block: make(chan struct{})}
	c := New(src, time.Minute, nil, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := c.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Len(t, snap, 1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(src.block)
	wg.Wait()

	assert.EqualValues(t, 1, src.loads.Load())
}

func TestSnapshot_CallerCancellation(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a")}, block: make(chan struct{})}
	c := New(src, time.Minute, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Snapshot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(src.block)
}

func TestInvalidate(t *testing.T) {
	src := &fakeStore{products: []product.Product{mk("a")}}
	c := New(src, time.Minute, nil, nil)
	ctx := context.Background()

	_, err := c.Snapshot(ctx)
	require.NoError(t, err)

	_, err = c.Upsert(ctx, mk("b"))
	require.NoError(t, err)
	stale, _ := c.Snapshot(ctx)
	assert.Len(t, stale, 1, "writes alone do not drop the cache")

	c.Invalidate()
	fresh, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestHealthCheck_Delegates(t *testing.T) {
	src := &fakeStore{pingErr: errors.New("down")}
	c := New(src, time.Minute, nil, nil)
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestSnapshot_SizeGauge(t *testing.T) {
	inner := &fakeStore{products: []product.Product{mk("a"), mk("b"), mk("c")}}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_catalog_products"})
	c := New(inner, time.Minute, nil, nil).WithSizeGauge(gauge)

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 3, testutil.ToFloat64(gauge), 0)
}
