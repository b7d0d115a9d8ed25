package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// --- Mocks ---

type mockStore struct {
	products    []product.Product
	snapshotErr error
	upsertErr   error
	upserted    []product.Product
	deleted     []string
}

func (m *mockStore) Snapshot(_ context.Context) ([]product.Product, error) {
	return m.products, m.snapshotErr
}

func (m *mockStore) Get(_ context.Context, id string) (product.Product, error) {
	for _, p := range m.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return product.Product{}, domain.ErrNotFound
}

func (m *mockStore) Upsert(_ context.Context, p product.Product) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	m.upserted = append(m.upserted, p)
	return true, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	if _, err := m.Get(context.Background(), id); err != nil {
		return err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockInvalidator struct{ calls int }

func (m *mockInvalidator) Invalidate() { m.calls++ }

func mk(id, name, category string, price float64) product.Product {
	return product.Reconstruct(product.Attrs{
		ID: id, Name: name, Category: category, Price: price, WeightGrams: 100, OrganizationID: "org-1",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func catalogFixture() *mockStore {
	return &mockStore{products: []product.Product{
		mk("1", "Sabonete", "Higiene", 10),
		mk("2", "Caderno", "Educação", 80),
		mk("3", "Escova de dente", "Higiene", 15),
		mk("4", "Camiseta", "Vestuário", 35),
		mk("5", "Pirulito", "Doces", 1),
	}}
}

func pageIDs(p Page) string {
	out := make([]string, len(p.Products))
	for i, pr := range p.Products {
		out[i] = pr.ID()
	}
	return fmt.Sprint(out)
}

func floatPtr(f float64) *float64 { return &f }

// --- Tests ---

func TestBrowse_Defaults(t *testing.T) {
	svc := New(catalogFixture())
	page, err := svc.Browse(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.Limit != DefaultLimit {
		t.Errorf("page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 5 || page.TotalPages != 1 {
		t.Errorf("total=%d totalPages=%d", page.Total, page.TotalPages)
	}
	if pageIDs(page) != "[1 2 3 4 5]" {
		t.Errorf("ids = %s", pageIDs(page))
	}
}

func TestBrowse_Filters(t *testing.T) {
	svc := New(catalogFixture())
	tests := []struct {
		name string
		f    Filters
		want string
	}{
		{"category", Filters{Category: "higiene"}, "[1 3]"},
		{"name", Filters{Name: "CAD"}, "[2]"},
		{"min", Filters{PriceMin: floatPtr(35)}, "[2 4]"},
		{"max", Filters{PriceMax: floatPtr(10)}, "[1 5]"},
		{"combined", Filters{Category: "Higiene", PriceMax: floatPtr(12)}, "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Browse(context.Background(), tt.f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pageIDs(page) != tt.want {
				t.Errorf("ids = %s, want %s", pageIDs(page), tt.want)
			}
		})
	}
}

func TestBrowse_Pagination(t *testing.T) {
	svc := New(catalogFixture())

	page, _ := svc.Browse(context.Background(), Filters{Page: 2, Limit: 2})
	if pageIDs(page) != "[3 4]" {
		t.Errorf("page 2 = %s", pageIDs(page))
	}
	if page.TotalPages != 3 || page.Total != 5 {
		t.Errorf("totalPages=%d total=%d", page.TotalPages, page.Total)
	}

	page, _ = svc.Browse(context.Background(), Filters{Page: 9, Limit: 2})
	if len(page.Products) != 0 {
		t.Errorf("out of range page = %s", pageIDs(page))
	}

	page, _ = svc.Browse(context.Background(), Filters{Limit: 1000})
	if page.Limit != MaxLimit {
		t.Errorf("limit = %d, want clamped to %d", page.Limit, MaxLimit)
	}
}

func TestBrowse_HugePageReturnsEmpty(t *testing.T) {
	for _, store := range []*mockStore{{}, catalogFixture()} {
		page, err := New(store).Browse(context.Background(), Filters{Page: math.MaxInt64 / 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Products) != 0 {
			t.Errorf("ids = %s, want none", pageIDs(page))
		}
		if page.Page != math.MaxInt64/2 || page.Total != len(store.products) {
			t.Errorf("page=%d total=%d", page.Page, page.Total)
		}
	}

	page, _ := New(catalogFixture()).Browse(context.Background(), Filters{Page: math.MaxInt64, Limit: MaxLimit})
	if len(page.Products) != 0 {
		t.Errorf("max page: ids = %s, want none", pageIDs(page))
	}
}

func TestBrowse_LastPageBoundary(t *testing.T) {
	page, _ := New(catalogFixture()).Browse(context.Background(), Filters{Page: 3, Limit: 2})
	if pageIDs(page) != "[5]" {
		t.Errorf("last page = %s, want [5]", pageIDs(page))
	}
	page, _ = New(catalogFixture()).Browse(context.Background(), Filters{Page: 2, Limit: 5})
	if len(page.Products) != 0 {
		t.Errorf("page past exact multiple = %s, want none", pageIDs(page))
	}
}

func TestBrowse_EmptyCatalog(t *testing.T) {
	svc := New(&mockStore{})
	page, err := svc.Browse(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 || page.TotalPages != 0 || len(page.Products) != 0 {
		t.Errorf("page = %+v", page)
	}
}

func TestBrowse_InvalidFilters(t *testing.T) {
	svc := New(catalogFixture())
	for _, f := range []Filters{
		{PriceMin: floatPtr(10), PriceMax: floatPtr(5)},
		{Page: -1},
		{Limit: -3},
	} {
		_, err := svc.Browse(context.Background(), f)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("Browse(%+v) err = %v, want ErrInvalidQuery", f, err)
		}
	}
}

func TestBrowse_SnapshotError(t *testing.T) {
	boom := errors.New("boom")
	svc := New(&mockStore{snapshotErr: boom})
	_, err := svc.Browse(context.Background(), Filters{})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestBrowse_FoldDiacritics(t *testing.T) {
	svc := New(&mockStore{products: []product.Product{mk("1", "Sabão", "Higiene", 3)}}).WithFoldDiacritics(true)
	page, _ := svc.Browse(context.Background(), Filters{Name: "sabao"})
	if pageIDs(page) != "[1]" {
		t.Errorf("ids = %s", pageIDs(page))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(catalogFixture())
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreate_GeneratesIDAndInvalidates(t *testing.T) {
	store := catalogFixture()
	inv := &mockInvalidator{}
	svc := New(store).WithInvalidators(inv, nil)
	svc.newID = func() string { return "generated" }
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	p, err := svc.Create(context.Background(), product.Attrs{Name: "Bala", Price: 1, WeightGrams: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "generated" {
		t.Errorf("ID() = %q", p.ID())
	}
	if !p.CreatedAt().Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt() = %v", p.CreatedAt())
	}
	if len(store.upserted) != 1 || inv.calls != 1 {
		t.Errorf("upserted=%d invalidations=%d", len(store.upserted), inv.calls)
	}
}

func TestCreate_Invalid(t *testing.T) {
	store := catalogFixture()
	inv := &mockInvalidator{}
	svc := New(store).WithInvalidators(inv)

	_, err := svc.Create(context.Background(), product.Attrs{Name: "Bala", Price: -1, WeightGrams: 5})
	if !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("err = %v, want ErrInvalidProduct", err)
	}
	if len(store.upserted) != 0 || inv.calls != 0 {
		t.Error("invalid product must not be stored")
	}
}

func TestCreate_StoreError(t *testing.T) {
	svc := New(&mockStore{upsertErr: domain.ErrReadOnlyCatalog})
	_, err := svc.Create(context.Background(), product.Attrs{Name: "Bala", Price: 1, WeightGrams: 5})
	if !errors.Is(err, domain.ErrReadOnlyCatalog) {
		t.Errorf("err = %v", err)
	}
}

func TestUpdate_KeepsCreatedAtAndOwner(t *testing.T) {
	store := catalogFixture()
	svc := New(store)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Update(context.Background(), "1", product.Attrs{Name: "Sabonete líquido", Price: 12, WeightGrams: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "1" || p.OrganizationID() != "org-1" {
		t.Errorf("id=%q org=%q", p.ID(), p.OrganizationID())
	}
	if !p.CreatedAt().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt() = %v", p.CreatedAt())
	}
	if p.UpdatedAt() == nil || !p.UpdatedAt().Equal(now) {
		t.Errorf("UpdatedAt() = %v", p.UpdatedAt())
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(catalogFixture())
	_, err := svc.Update(context.Background(), "missing", product.Attrs{Name: "x", WeightGrams: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := catalogFixture()
	inv := &mockInvalidator{}
	svc := New(store).WithInvalidators(inv)

	if err := svc.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(store.deleted) != "[2]" || inv.calls != 1 {
		t.Errorf("deleted=%v invalidations=%d", store.deleted, inv.calls)
	}

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if inv.calls != 1 {
		t.Error("failed delete must not invalidate")
	}
}
