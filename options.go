package ongsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	source   string // "memory", "redis", "valkey" or "sqlite"
	products []Product
	addrs    []string
	password string
	prefix   string
	sqlite   string

	pageSize       int
	marker         *string
	foldDiacritics bool
	cacheTTL       time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithProducts serves the given products from memory instead of the demo catalog.
func WithProducts(products []Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "memory"
		c.products = products
	})
}

// WithRedis reads the catalog from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey reads the catalog from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the Redis/Valkey key prefix. Default: "ong:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.prefix = prefix
	})
}

// WithSQLite reads the catalog from a SQLite file, creating the schema if needed.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = "sqlite"
		c.sqlite = path
	})
}

// WithPageSize caps the products returned by Search and the default Browse page.
// Default: 12.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithForceFallbackMarker sets the substring that forces a text search.
// An empty marker disables forcing.
func WithForceFallbackMarker(marker string) Option {
	return optionFunc(func(c *clientConfig) {
		c.marker = &marker
	})
}

// WithFoldDiacritics makes text matching accent-insensitive ("sabao" finds "Sabão").
func WithFoldDiacritics(fold bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.foldDiacritics = fold
	})
}

// WithCacheTTL keeps catalog snapshots in memory for ttl. Zero disables caching (default).
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
