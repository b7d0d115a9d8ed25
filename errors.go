package ongsearch

import "github.com/kailas-cloud/ongsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidProduct     = domain.ErrInvalidProduct
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrReadOnlyCatalog    = domain.ErrReadOnlyCatalog
)
