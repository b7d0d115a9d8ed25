// Package memcatalog is a writable in-process product store seeded from an
// embedded fixture. It optionally simulates network latency.
package memcatalog

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/codec/productjson"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

//go:embed seed/products.json
var seedJSON []byte

// Seed returns the embedded fixture catalog.
func Seed() ([]product.Product, error) {
	page, err := productjson.DecodeList(seedJSON)
	if err != nil {
		return nil, fmt.Errorf("decode embedded seed: %w", err)
	}
	return page.Products, nil
}

// Catalog holds products in insertion order.
type Catalog struct {
	mu       sync.RWMutex
	products []product.Product
	delay    time.Duration
}

// New creates a catalog holding a copy of products.
func New(products []product.Product) *Catalog {
	return &Catalog{products: slices.Clone(products)}
}

// NewSeeded creates a catalog from the embedded fixture.
func NewSeeded() (*Catalog, error) {
	products, err := Seed()
	if err != nil {
		return nil, err
	}
	return New(products), nil
}

// WithDelay makes every Snapshot wait d before answering.
func (c *Catalog) WithDelay(d time.Duration) *Catalog {
	c.delay = d
	return c
}

// Snapshot returns a copy of the catalog.
func (c *Catalog) Snapshot(ctx context.Context) ([]product.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products), nil
}

// Get returns a product by ID.
func (c *Catalog) Get(ctx context.Context, id string) (product.Product, error) {
	if err := c.wait(ctx); err != nil {
		return product.Product{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.products[i], nil
	}
	return product.Product{}, domain.ErrNotFound
}

// Upsert replaces a product in place or appends it. Returns true if created.
func (c *Catalog) Upsert(_ context.Context, p product.Product) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(p.ID()); i >= 0 {
		c.products[i] = p
		return false, nil
	}
	c.products = append(c.products, p)
	return true, nil
}

// Delete removes a product.
func (c *Catalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.products = slices.Delete(c.products, i, i+1)
	return nil
}

// HealthCheck always succeeds.
func (c *Catalog) HealthCheck(context.Context) error { return nil }

// Len returns the number of products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.products, func(p product.Product) bool { return p.ID() == id })
}

func (c *Catalog) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("simulated delay: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
