package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding and retrieval pipeline metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quill",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	PoolSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "pool_searches_total",
			Help:      "Total similarity searches per pool",
		},
		[]string{"pool", "status"},
	)

	PoolCandidatesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quill",
			Name:      "pool_candidates_returned",
			Help:      "Candidates above threshold per pool search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"pool"},
	)

	HydrationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "hydration_failures_total",
			Help:      "Bulk detail fetches that failed and degraded to match-time fields",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers pipeline metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(PoolSearchesTotal)
	prometheus.MustRegister(PoolCandidatesReturned)
	prometheus.MustRegister(HydrationFailuresTotal)
	retrievalMetricsRegistered = true
}
