package productsql

import (
	"database/sql"
	"fmt"
	"time"

	domproduct "github.com/kailas-cloud/ongsearch/internal/domain/product"
)

type row struct {
	Seq            int64          `db:"seq"`
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	Price          float64        `db:"price"`
	Category       string         `db:"category"`
	CategoryID     int            `db:"category_id"`
	ImageURL       string         `db:"image_url"`
	StockQty       int            `db:"stock_qty"`
	WeightGrams    int            `db:"weight_grams"`
	OrganizationID string         `db:"organization_id"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      sql.NullString `db:"updated_at"`
}

func toRow(p domproduct.Product) row {
	r := row{
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
		CreatedAt:      p.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
	if u := p.UpdatedAt(); u != nil {
		r.UpdatedAt = sql.NullString{String: u.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	return r
}

func (r row) toDomain() (domproduct.Product, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return domproduct.Product{}, fmt.Errorf("parse created_at of %s: %w", r.ID, err)
	}
	a := domproduct.Attrs{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		Category:       r.Category,
		CategoryID:     r.CategoryID,
		ImageURL:       r.ImageURL,
		StockQty:       r.StockQty,
		WeightGrams:    r.WeightGrams,
		OrganizationID: r.OrganizationID,
		CreatedAt:      created,
	}
	if r.UpdatedAt.Valid {
		u, err := time.Parse(time.RFC3339Nano, r.UpdatedAt.String)
		if err != nil {
			return domproduct.Product{}, fmt.Errorf("parse updated_at of %s: %w", r.ID, err)
		}
		a.UpdatedAt = &u
	}
	return domproduct.Reconstruct(a), nil
}
