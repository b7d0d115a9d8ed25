// Package remote reads the catalog from the NGO platform's public REST API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ongsearch/internal/codec/productjson"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/domain/product"
	"github.com/kailas-cloud/ongsearch/internal/metrics"
)

// Defaults for Config.
const (
	DefaultPageSize = 100
	DefaultMaxPages = 50
	DefaultTimeout  = 10 * time.Second
)

const maxBodyBytes = 16 << 20

// Config holds the remote provider settings.
type Config struct {
	BaseURL   string
	Token     string
	PageSize  int
	MaxPages  int
	Timeout   time.Duration
	Transport http.RoundTripper // e.g. auditlog.RoundTripper
	Logger    *zap.Logger
}

// Provider is a read-only catalog backed by GET /api/public/catalog.
type Provider struct {
	base     *url.URL
	token    string
	pageSize int
	maxPages int
	client   *http.Client
	logger   *zap.Logger
}

// New creates a remote provider.
func New(cfg *Config) (*Provider, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid remote base url %q", cfg.BaseURL)
	}

	p := &Provider{
		base:     base,
		token:    cfg.Token,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		logger:   cfg.Logger,
	}
	if p.pageSize <= 0 {
		p.pageSize = DefaultPageSize
	}
	if p.maxPages <= 0 {
		p.maxPages = DefaultMaxPages
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p.client = &http.Client{Timeout: timeout, Transport: cfg.Transport}
	return p, nil
}

// Snapshot fetches every catalog page in server order.
func (p *Provider) Snapshot(ctx context.Context) ([]product.Product, error) {
	start := time.Now()
	out, err := p.snapshot(ctx)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.CatalogSnapshotDuration.WithLabelValues("remote", status).Observe(time.Since(start).Seconds())
	return out, err
}

func (p *Provider) snapshot(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	seen := make(map[string]struct{})

	for page := 1; page <= p.maxPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(p.pageSize))

		body, status, err := p.get(ctx, "/api/public/catalog", q)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("%w: catalog page %d: status %d", domain.ErrCatalogUnavailable, page, status)
		}

		decoded, err := productjson.DecodeList(body)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog page %d: %w", domain.ErrCatalogUnavailable, page, err)
		}
		if decoded.Skipped > 0 {
			p.logger.Warn("skipped malformed catalog records",
				zap.Int("page", page), zap.Int("skipped", decoded.Skipped))
		}

		for _, pr := range decoded.Products {
			if _, dup := seen[pr.ID()]; dup {
				continue
			}
			seen[pr.ID()] = struct{}{}
			out = append(out, pr)
		}

		if decoded.TotalPages > 0 && page >= decoded.TotalPages {
			break
		}
		if decoded.TotalPages == 0 && len(decoded.Products)+decoded.Skipped < p.pageSize {
			break
		}
	}

	if out == nil {
		out = []product.Product{}
	}
	return out, nil
}

// Get fetches one product.
func (p *Provider) Get(ctx context.Context, id string) (product.Product, error) {
	body, status, err := p.get(ctx, "/api/public/products/"+url.PathEscape(id), nil)
	if err != nil {
		return product.Product{}, err
	}
	switch {
	case status == http.StatusNotFound:
		return product.Product{}, domain.ErrNotFound
	case status != http.StatusOK:
		return product.Product{}, fmt.Errorf("%w: product %s: status %d", domain.ErrCatalogUnavailable, id, status)
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	raw := json.RawMessage(body)
	if json.Unmarshal(body, &env) == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		raw = env.Data
	}
	pr, err := productjson.DecodeProduct(raw)
	if err != nil {
		return product.Product{}, fmt.Errorf("%w: product %s: %w", domain.ErrCatalogUnavailable, id, err)
	}
	return pr, nil
}

// Upsert is not supported by the public API.
func (p *Provider) Upsert(context.Context, product.Product) (bool, error) {
	return false, domain.ErrReadOnlyCatalog
}

// Delete is not supported by the public API.
func (p *Provider) Delete(context.Context, string) error {
	return domain.ErrReadOnlyCatalog
}

// HealthCheck requests a single-item catalog page.
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, status, err := p.get(ctx, "/api/public/catalog", url.Values{"page": {"1"}, "limit": {"1"}})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
	}
	return nil
}

func (p *Provider) get(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	u := *p.base
	u.Path = p.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: GET %s: %w", domain.ErrCatalogUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read %s: %w", domain.ErrCatalogUnavailable, path, err)
	}
	return body, resp.StatusCode, nil
}
