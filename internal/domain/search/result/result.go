package result

import (
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
)

// Result is the outcome of one search invocation.
type Result struct {
	products       []product.Product
	interpretation *interpretation.Interpretation
}

// New creates a search result. A nil or absent interpretation marks the fallback path.
func New(products []product.Product, interp *interpretation.Interpretation) Result {
	if interp != nil && !interp.IsPresent() {
		interp = nil
	}
	return Result{products: products, interpretation: interp}
}

// Products returns the matching products in catalog order.
func (r *Result) Products() []product.Product { return r.products }

// Interpretation returns the structured filters used, nil on fallback.
func (r *Result) Interpretation() *interpretation.Interpretation { return r.interpretation }

// FallbackApplied reports whether plain text search was used.
func (r *Result) FallbackApplied() bool { return r.interpretation == nil }

// AIUsed reports whether interpretation drove the result.
func (r *Result) AIUsed() bool { return !r.FallbackApplied() }

// Summary returns the human-readable interpretation summary, empty on fallback.
func (r *Result) Summary() string {
	if r.interpretation == nil {
		return ""
	}
	return r.interpretation.Summary()
}
