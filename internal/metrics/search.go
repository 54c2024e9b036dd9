package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and index Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "success" / "validation_error" / "error"
	)

	SearchMethodDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrsearch",
			Name:      "search_method_duration_seconds",
			Help:      "Per-method retrieval duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"}, // "semantic" / "keyword"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrsearch",
			Name:      "search_cache_total",
			Help:      "Search response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "hrsearch",
			Name:      "index_documents",
			Help:      "Documents in the active index snapshot per entity type",
		},
		[]string{"entity_type"},
	)

	IndexRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hrsearch",
			Name:      "index_rebuild_duration_seconds",
			Help:      "Index rebuild duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	IndexRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrsearch",
			Name:      "index_rebuilds_total",
			Help:      "Total index rebuild operations",
		},
		[]string{"status"}, // "success" / "error" / "conflict"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search Prometheus metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchMethodDuration)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(IndexDocuments)
	prometheus.MustRegister(IndexRebuildDuration)
	prometheus.MustRegister(IndexRebuildsTotal)
	searchMetricsRegistered = true
}
