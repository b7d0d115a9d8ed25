package productjson

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// record is the snake_case seed file layout.
type record struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Category       string     `json:"category"`
	CategoryID     int        `json:"category_id"`
	ImageURL       string     `json:"image_url"`
	StockQty       int        `json:"stock_qty"`
	WeightGrams    int        `json:"weight_grams"`
	OrganizationID string     `json:"organization_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// EncodeList writes products in the seed file layout.
func EncodeList(products []product.Product) ([]byte, error) {
	out := make([]record, len(products))
	for i, p := range products {
		out[i] = record{
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
	return json.MarshalIndent(out, "", "  ")
}
