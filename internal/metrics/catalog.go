package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog and search Prometheus metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ongsearch",
			Name:      "search_total",
			Help:      "Natural-language searches by outcome",
		},
		[]string{"outcome"}, // "interpreted" / "fallback" / "error"
	)

	CatalogSnapshotDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ongsearch",
			Name:      "catalog_snapshot_duration_seconds",
			Help:      "Catalog snapshot fetch duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source", "status"},
	)

	CatalogSnapshotCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ongsearch",
			Name:      "catalog_snapshot_cache_total",
			Help:      "Catalog snapshot cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ongsearch",
			Name:      "catalog_products",
			Help:      "Products in the most recent catalog snapshot",
		},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers catalog and search metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(CatalogSnapshotDuration)
	prometheus.MustRegister(CatalogSnapshotCacheTotal)
	prometheus.MustRegister(CatalogProducts)
	catalogMetricsRegistered = true
}
