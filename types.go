package ongsearch

import (
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/ongsearch/internal/usecase/catalog"
)

// Product is a catalog item.
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          float64
	Category       string
	CategoryID     int
	ImageURL       string
	StockQty       int
	WeightGrams    int
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Interpretation holds the filters extracted from a query. Nil fields were not recognised.
type Interpretation struct {
	Category *string
	PriceMax *float64
	PriceMin *float64
	Raw      string // the query as typed
}

// SearchResult is the outcome of a natural-language search.
// Interpretation is nil exactly when FallbackApplied is true.
type SearchResult struct {
	Products        []Product
	Interpretation  *Interpretation
	Summary         string
	AIUsed          bool
	FallbackApplied bool
}

// BrowseOptions filters and paginates the catalog. Zero values mean no constraint.
type BrowseOptions struct {
	Category string
	Name     string
	MinPrice *float64
	MaxPrice *float64
	Page     int // 1-based
	Limit    int
}

// Page is one page of browse results.
type Page struct {
	Products   []Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

func fromProduct(p product.Product) Product {
	return Product{
		ID:             p.ID(),
		Name:           p.Name(),
		Description:    p.Description(),
		Price:          p.Price(),
		Category:       p.Category(),
		CategoryID:     p.CategoryID(),
		ImageURL:       p.ImageURL(),
		StockQty:       p.StockQty(),
		WeightGrams:    p.WeightGrams(),
		OrganizationID: p.OrganizationID(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

func fromProducts(ps []product.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = fromProduct(p)
	}
	return out
}

func (p Product) toAttrs() product.Attrs {
	return product.Attrs{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Category:       p.Category,
		CategoryID:     p.CategoryID,
		ImageURL:       p.ImageURL,
		StockQty:       p.StockQty,
		WeightGrams:    p.WeightGrams,
		OrganizationID: p.OrganizationID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func fromSearchResult(r *result.Result) SearchResult {
	out := SearchResult{
		Products:        fromProducts(r.Products()),
		Summary:         r.Summary(),
		AIUsed:          r.AIUsed(),
		FallbackApplied: r.FallbackApplied(),
	}
	if in := r.Interpretation(); in != nil {
		out.Interpretation = &Interpretation{Category: in.Category, PriceMax: in.PriceMax, PriceMin: in.PriceMin, Raw: in.Raw}
	}
	return out
}

func (o *BrowseOptions) toFilters() cataloguc.Filters {
	if o == nil {
		return cataloguc.Filters{}
	}
	return cataloguc.Filters{
		Category: o.Category,
		Name:     o.Name,
		PriceMin: o.MinPrice,
		PriceMax: o.MaxPrice,
		Page:     o.Page,
		Limit:    o.Limit,
	}
}

func fromPage(p cataloguc.Page) Page {
	return Page{
		Products:   fromProducts(p.Products),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}
