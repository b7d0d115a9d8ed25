package product

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Field limits.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 4000
)

// Attrs carries the raw product fields for construction and hydration.
type Attrs struct {
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

// Product is an immutable catalog record.
type Product struct {
	id             string
	name           string
	description    string
	price          float64
	category       string
	categoryID     int
	imageURL       string
	stockQty       int
	weightGrams    int
	organizationID string
	createdAt      time.Time
	updatedAt      *time.Time
}

// New validates and creates a Product.
// Price and stock must be non-negative, weight positive, name non-empty.
func New(a Attrs) (Product, error) {
	if strings.TrimSpace(a.ID) == "" {
		return Product{}, fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return Product{}, fmt.Errorf("product name is required")
	}
	if len(a.Name) > MaxNameLength {
		return Product{}, fmt.Errorf("product name too long (max %d)", MaxNameLength)
	}
	if len(a.Description) > MaxDescriptionLength {
		return Product{}, fmt.Errorf("product description too long (max %d)", MaxDescriptionLength)
	}
	if math.IsNaN(a.Price) || math.IsInf(a.Price, 0) || a.Price < 0 {
		return Product{}, fmt.Errorf("product price must be a non-negative number")
	}
	if a.StockQty < 0 {
		return Product{}, fmt.Errorf("product stock must be non-negative")
	}
	if a.WeightGrams <= 0 {
		return Product{}, fmt.Errorf("product weight must be positive")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return Reconstruct(a), nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(a Attrs) Product {
	return Product{
		id:             a.ID,
		name:           a.Name,
		description:    a.Description,
		price:          a.Price,
		category:       a.Category,
		categoryID:     a.CategoryID,
		imageURL:       a.ImageURL,
		stockQty:       a.StockQty,
		weightGrams:    a.WeightGrams,
		organizationID: a.OrganizationID,
		createdAt:      a.CreatedAt,
		updatedAt:      a.UpdatedAt,
	}
}

// ID returns the opaque product identifier.
func (p Product) ID() string { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Price returns the unit price.
func (p Product) Price() float64 { return p.price }

// Category returns the category label.
func (p Product) Category() string { return p.category }

// CategoryID returns the numeric category id used by the admin API.
func (p Product) CategoryID() int { return p.categoryID }

// ImageURL returns the product image location.
func (p Product) ImageURL() string { return p.imageURL }

// StockQty returns the quantity in stock.
func (p Product) StockQty() int { return p.stockQty }

// WeightGrams returns the product weight in grams.
func (p Product) WeightGrams() int { return p.weightGrams }

// OrganizationID returns the owning organization.
func (p Product) OrganizationID() string { return p.organizationID }

// CreatedAt returns the creation timestamp.
func (p Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp, nil if never updated.
func (p Product) UpdatedAt() *time.Time { return p.updatedAt }

// Attrs returns a copy of the product fields.
func (p Product) Attrs() Attrs {
	return Attrs{
		ID:             p.id,
		Name:           p.name,
		Description:    p.description,
		Price:          p.price,
		Category:       p.category,
		CategoryID:     p.categoryID,
		ImageURL:       p.imageURL,
		StockQty:       p.stockQty,
		WeightGrams:    p.weightGrams,
		OrganizationID: p.organizationID,
		CreatedAt:      p.createdAt,
		UpdatedAt:      p.updatedAt,
	}
}
