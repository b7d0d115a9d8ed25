package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/interpretation"
	searchuc "github.com/kailas-cloud/ongsearch/internal/usecase/search"
)

// Pagination limits.
const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Filters selects products for public browsing. Nil/empty fields are no constraint.
type Filters struct {
	Category string
	Name     string
	PriceMin *float64
	PriceMax *float64
	Page     int // 1-based
	Limit    int
}

// Page is one page of browse results.
type Page struct {
	Products   []product.Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Service handles catalog browsing and product administration.
type Service struct {
	store        Store
	filters      *searchuc.FilterEngine
	invalidators []Invalidator
	defaultLimit int
	maxLimit     int
	now          func() time.Time
	newID        func() string
}

// New creates a catalog service.
func New(store Store) *Service {
	return &Service{
		store:        store,
		filters:      searchuc.NewFilterEngine(MaxLimit, false),
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// WithFoldDiacritics enables accent-insensitive name matching.
func (s *Service) WithFoldDiacritics(fold bool) *Service {
	s.filters = searchuc.NewFilterEngine(s.maxLimit, fold)
	return s
}

// WithInvalidators registers caches to drop after writes.
func (s *Service) WithInvalidators(inv ...Invalidator) *Service {
	for _, i := range inv {
		if i != nil {
			s.invalidators = append(s.invalidators, i)
		}
	}
	return s
}

// Browse returns one page of products matching f, in catalog order.
func (s *Service) Browse(ctx context.Context, f Filters) (Page, error) {
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return Page{}, fmt.Errorf("%w: minPrice greater than maxPrice", domain.ErrInvalidQuery)
	}
	if f.Page < 0 || f.Limit < 0 {
		return Page{}, fmt.Errorf("%w: page and limit must be positive", domain.ErrInvalidQuery)
	}

	page := f.Page
	if page == 0 {
		page = 1
	}
	limit := f.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	products, err := s.store.Snapshot(ctx)
	if err != nil {
		return Page{}, domain.CatalogUnavailable(err)
	}

	crit := interpretation.Interpretation{PriceMin: f.PriceMin, PriceMax: f.PriceMax}
	if c := strings.TrimSpace(f.Category); c != "" {
		crit.Category = &c
	}

	matched := make([]product.Product, 0, len(products))
	for _, p := range products {
		if !searchuc.MatchesInterpretation(p, crit) {
			continue
		}
		if f.Name != "" && !s.filters.MatchText(p, f.Name) {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	out := Page{
		Products:   []product.Product{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
	// Compare before multiplying so huge page numbers cannot overflow.
	if page-1 > total/limit {
		return out, nil
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	out.Products = matched[start:end]
	return out, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Create validates and stores a new product. An empty id is generated.
func (s *Service) Create(ctx context.Context, a product.Attrs) (product.Product, error) {
	if a.ID == "" {
		a.ID = s.newID()
	}
	a.CreatedAt = s.now().UTC()
	a.UpdatedAt = nil

	p, err := product.New(a)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: %w", domain.ErrInvalidProduct, err)
	}
	if _, err := s.store.Upsert(ctx, p); err != nil {
		return product.Product{}, fmt.Errorf("upsert product: %w", err)
	}
	s.invalidate()
	return p, nil
}

// Update replaces an existing product, keeping its id, owner and creation time.
func (s *Service) Update(ctx context.Context, id string, a product.Attrs) (product.Product, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}

	now := s.now().UTC()
	a.ID = id
	a.CreatedAt = existing.CreatedAt()
	a.UpdatedAt = &now
	if a.OrganizationID == "" {
		a.OrganizationID = existing.OrganizationID()
	}

	p, err := product.New(a)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: %w", domain.ErrInvalidProduct, err)
	}
	if _, err := s.store.Upsert(ctx, p); err != nil {
		return product.Product{}, fmt.Errorf("upsert product: %w", err)
	}
	s.invalidate()
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	for _, i := range s.invalidators {
		i.Invalidate()
	}
}
