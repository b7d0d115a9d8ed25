package product

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/ongsearch/internal/domain"
	domproduct "github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// DefaultKeyPrefix namespaces product keys.
const DefaultKeyPrefix = "ong:"

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Ping(ctx context.Context) error
}

// Repo stores products as hashes, one key per product.
// Snapshot order is insertion order, tracked by a per-product sequence.
type Repo struct {
	store  store
	prefix string
}

// New creates a product repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Snapshot returns every product in insertion order.
func (r *Repo) Snapshot(ctx context.Context) ([]domproduct.Product, error) {
	keys, err := r.store.Scan(ctx, r.productKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return []domproduct.Product{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	type entry struct {
		p   domproduct.Product
		seq int64
	}
	entries := make([]entry, 0, len(hashes))
	for i, m := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(m) == 0 {
			continue
		}
		p, seq, err := parseHashFields(m)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		entries = append(entries, entry{p: p, seq: seq})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.seq, b.seq); c != 0 {
			return c
		}
		return cmp.Compare(a.p.ID(), b.p.ID())
	})

	out := make([]domproduct.Product, len(entries))
	for i, e := range entries {
		out[i] = e.p
	}
	return out, nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domproduct.Product, error) {
	key := r.productKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domproduct.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domproduct.Product{}, domain.ErrNotFound
	}
	p, _, err := parseHashFields(m)
	if err != nil {
		return domproduct.Product{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return p, nil
}

// Upsert creates or replaces a product. Returns true if created.
// Updates keep the original insertion sequence.
func (r *Repo) Upsert(ctx context.Context, p domproduct.Product) (bool, error) {
	key := r.productKey(p.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	fields := buildHashFields(p)
	if !exists {
		seq, err := r.store.IncrBy(ctx, r.seqKey(), 1)
		if err != nil {
			return false, fmt.Errorf("next sequence: %w", err)
		}
		fields[fieldSeq] = strconv.FormatInt(seq, 10)
	}

	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.productKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// HealthCheck pings the backing store.
func (r *Repo) HealthCheck(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repo) productKey(id string) string {
	return r.prefix + "product:" + id
}

// seqKey lives outside the product:* keyspace so SCAN never returns it.
func (r *Repo) seqKey() string {
	return r.prefix + "seq:product"
}
