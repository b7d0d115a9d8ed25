package ongsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/ongsearch/internal/db/redis"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/domain/search/result"
	"github.com/kailas-cloud/ongsearch/internal/repository/memcatalog"
	productrepo "github.com/kailas-cloud/ongsearch/internal/repository/product"
	"github.com/kailas-cloud/ongsearch/internal/repository/productsql"
	"github.com/kailas-cloud/ongsearch/internal/repository/snapcache"
	cataloguc "github.com/kailas-cloud/ongsearch/internal/usecase/catalog"
	searchuc "github.com/kailas-cloud/ongsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string) (result.Result, error)
}

type catalogUseCase interface {
	Browse(ctx context.Context, f cataloguc.Filters) (cataloguc.Page, error)
	Get(ctx context.Context, id string) (product.Product, error)
}

// Client is the ongsearch SDK entry point.
type Client struct {
	searchSvc  searchUseCase
	catalogSvc catalogUseCase
	closers    []func() error
	obs        *observer
}

// New creates a Client. Without a source option it serves the demo catalog.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{source: "memory", prefix: productrepo.DefaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.wire(store, cfg)
	return c, nil
}

func (c *Client) openStore(ctx context.Context, cfg *clientConfig) (cataloguc.Store, error) {
	switch cfg.source {
	case "memory":
		if cfg.products == nil {
			cat, err := memcatalog.NewSeeded()
			if err != nil {
				return nil, fmt.Errorf("ongsearch: load demo catalog: %w", err)
			}
			return cat, nil
		}
		products := make([]product.Product, 0, len(cfg.products))
		for _, p := range cfg.products {
			dp, err := product.New(p.toAttrs())
			if err != nil {
				return nil, fmt.Errorf("ongsearch: %w: %s: %w", domain.ErrInvalidProduct, p.ID, err)
			}
			products = append(products, dp)
		}
		return memcatalog.New(products), nil

	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, fmt.Errorf("ongsearch: create %s store: %w", cfg.source, err)
		}
		c.closers = append(c.closers, func() error { s.Close(); return nil })
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return nil, fmt.Errorf("ongsearch: database not ready: %w", err)
		}
		return productrepo.New(s, cfg.prefix), nil

	case "sqlite":
		if cfg.sqlite == "" {
			return nil, errors.New("ongsearch: sqlite path required")
		}
		repo, err := productsql.Open(ctx, cfg.sqlite)
		if err != nil {
			return nil, fmt.Errorf("ongsearch: open sqlite: %w", err)
		}
		c.closers = append(c.closers, repo.Close)
		return repo, nil

	default:
		return nil, fmt.Errorf("ongsearch: unknown source %q", cfg.source)
	}
}

func (c *Client) wire(store cataloguc.Store, cfg *clientConfig) {
	var snapshots searchuc.CatalogProvider = store
	catalogSvc := cataloguc.New(store)
	if cfg.cacheTTL > 0 {
		cache := snapcache.New(store, cfg.cacheTTL, nil, cfg.logger)
		snapshots = cache
		catalogSvc = cataloguc.New(cache).WithInvalidators(cache)
	}

	searchSvc := searchuc.New(snapshots, nil).
		WithFilterEngine(searchuc.NewFilterEngine(cfg.pageSize, cfg.foldDiacritics))
	if cfg.marker != nil {
		searchSvc = searchSvc.WithForceFallbackMarker(*cfg.marker)
	}

	c.searchSvc = searchSvc
	c.catalogSvc = catalogSvc.
		WithPagination(cfg.pageSize, 0).
		WithFoldDiacritics(cfg.foldDiacritics)
}

// Close releases all resources.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Search interprets query and returns the matching products.
// Queries with no recognised filter fall back to a text search.
func (c *Client) Search(ctx context.Context, query string) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromSearchResult(&res), nil
}

// Browse returns one page of the catalog. opts may be nil.
func (c *Client) Browse(ctx context.Context, opts *BrowseOptions) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("browse", start, err) }()

	page, err := c.catalogSvc.Browse(ctx, opts.toFilters())
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}
	return fromPage(page), nil
}

// Product returns a product by id.
func (c *Client) Product(ctx context.Context, id string) (_ Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("product", start, err) }()

	p, err := c.catalogSvc.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("product: %w", err)
	}
	return fromProduct(p), nil
}
