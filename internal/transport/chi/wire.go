package chi

import (
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/ongsearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/ongsearch/internal/usecase/health"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeReadOnlyCatalog    ErrorCode = "read_only_catalog"
	ErrorCodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	ErrorCodeRequestCanceled    ErrorCode = "request_canceled"
	ErrorCodeTimeout            ErrorCode = "timeout"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Product is the camelCase product representation.
type Product struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Category       string     `json:"category"`
	CategoryID     int        `json:"categoryId"`
	ImageURL       string     `json:"imageUrl"`
	StockQty       int        `json:"stockQty"`
	WeightGrams    int        `json:"weightGrams"`
	OrganizationID string     `json:"organizationId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Interpretation lists only the constraints that were recognised.
type Interpretation struct {
	Category *string  `json:"category,omitempty"`
	PriceMax *float64 `json:"priceMax,omitempty"`
	PriceMin *float64 `json:"priceMin,omitempty"`
	Raw      string   `json:"raw,omitempty"`
}

// SearchData is the payload of GET /api/public/search.
type SearchData struct {
	Data            []Product       `json:"data"`
	Interpretation  *Interpretation `json:"interpretation,omitempty"`
	Summary         string          `json:"summary,omitempty"`
	AIUsed          bool            `json:"ai_used"`
	FallbackApplied bool            `json:"fallback_applied"`
}

// SearchResponse wraps SearchData.
type SearchResponse struct {
	Success bool       `json:"success"`
	Data    SearchData `json:"data"`
}

// CatalogPage is the payload of GET /api/public/catalog.
type CatalogPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// CatalogResponse wraps CatalogPage.
type CatalogResponse struct {
	Success bool        `json:"success"`
	Data    CatalogPage `json:"data"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Success bool    `json:"success"`
	Data    Product `json:"data"`
}

// ProductRequest is the body of POST and PUT /api/products.
type ProductRequest struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          *float64 `json:"price"`
	Category       string   `json:"category"`
	CategoryID     int      `json:"categoryId"`
	ImageURL       string   `json:"imageUrl"`
	StockQty       int      `json:"stockQty"`
	WeightGrams    int      `json:"weightGrams"`
	OrganizationID string   `json:"organizationId"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func productToWire(p product.Product) Product {
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

func productsToWire(ps []product.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = productToWire(p)
	}
	return out
}

func interpretationToWire(in *interpretation.Interpretation) *Interpretation {
	if in == nil {
		return nil
	}
	return &Interpretation{Category: in.Category, PriceMax: in.PriceMax, PriceMin: in.PriceMin, Raw: in.Raw}
}

func searchResultToWire(r *result.Result) SearchResponse {
	return SearchResponse{
		Success: true,
		Data: SearchData{
			Data:            productsToWire(r.Products()),
			Interpretation:  interpretationToWire(r.Interpretation()),
			Summary:         r.Summary(),
			AIUsed:          r.AIUsed(),
			FallbackApplied: r.FallbackApplied(),
		},
	}
}

func catalogPageToWire(p cataloguc.Page) CatalogResponse {
	return CatalogResponse{
		Success: true,
		Data: CatalogPage{
			Products:   productsToWire(p.Products),
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

func (req ProductRequest) attrs() product.Attrs {
	a := product.Attrs{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		CategoryID:     req.CategoryID,
		ImageURL:       req.ImageURL,
		StockQty:       req.StockQty,
		WeightGrams:    req.WeightGrams,
		OrganizationID: req.OrganizationID,
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	return a
}

func healthToWire(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}
