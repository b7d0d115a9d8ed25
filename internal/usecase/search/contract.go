package search

import (
	"context"

	"github.com/kailas-cloud/ongsearch/internal/domain/audit"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// CatalogProvider returns the full product collection for one search.
// The returned slice is a read-only snapshot.
type CatalogProvider interface {
	Snapshot(ctx context.Context) ([]product.Product, error)
}

// DecisionLogger records how a search was resolved. Must not fail or block.
type DecisionLogger interface {
	RecordDecision(ctx context.Context, rec audit.DecisionRecord)
}
