package catalog

import (
	"context"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// Reader is the read side of a catalog source.
type Reader interface {
	Snapshot(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
}

// Writer is the write side of a catalog source. Read-only sources return domain.ErrReadOnlyCatalog.
type Writer interface {
	Upsert(ctx context.Context, p product.Product) (created bool, err error)
	Delete(ctx context.Context, id string) error
}

// Store combines both sides.
type Store interface {
	Reader
	Writer
}

// Invalidator drops cached snapshots after a write.
type Invalidator interface {
	Invalidate()
}
