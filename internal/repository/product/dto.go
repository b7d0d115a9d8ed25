package product

import (
	"fmt"
	"strconv"
	"time"

	domproduct "github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// Hash field names.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldCategoryID  = "category_id"
	fieldImageURL    = "image_url"
	fieldStockQty    = "stock_qty"
	fieldWeightGrams = "weight_grams"
	fieldOrgID       = "organization_id"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldSeq         = "__seq"
)

// buildHashFields converts a domain Product into a flat map[string]string for HSET.
// The insertion sequence is written separately on create.
func buildHashFields(p domproduct.Product) map[string]string {
	m := map[string]string{
		fieldID:          p.ID(),
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldPrice:       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		fieldCategory:    p.Category(),
		fieldCategoryID:  strconv.Itoa(p.CategoryID()),
		fieldImageURL:    p.ImageURL(),
		fieldStockQty:    strconv.Itoa(p.StockQty()),
		fieldWeightGrams: strconv.Itoa(p.WeightGrams()),
		fieldOrgID:       p.OrganizationID(),
		fieldCreatedAt:   p.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	if u := p.UpdatedAt(); u != nil {
		m[fieldUpdatedAt] = u.UTC().Format(time.RFC3339Nano)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Product and its insertion sequence.
func parseHashFields(m map[string]string) (domproduct.Product, int64, error) {
	price, err := strconv.ParseFloat(m[fieldPrice], 64)
	if err != nil {
		return domproduct.Product{}, 0, fmt.Errorf("parse %s: %w", fieldPrice, err)
	}
	created, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	if err != nil {
		return domproduct.Product{}, 0, fmt.Errorf("parse %s: %w", fieldCreatedAt, err)
	}

	a := domproduct.Attrs{
		ID:             m[fieldID],
		Name:           m[fieldName],
		Description:    m[fieldDescription],
		Price:          price,
		Category:       m[fieldCategory],
		CategoryID:     atoi(m[fieldCategoryID]),
		ImageURL:       m[fieldImageURL],
		StockQty:       atoi(m[fieldStockQty]),
		WeightGrams:    atoi(m[fieldWeightGrams]),
		OrganizationID: m[fieldOrgID],
		CreatedAt:      created,
	}
	if raw := m[fieldUpdatedAt]; raw != "" {
		if u, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			a.UpdatedAt = &u
		}
	}

	seq, _ := strconv.ParseInt(m[fieldSeq], 10, 64)
	return domproduct.Reconstruct(a), seq, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
