package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luminate",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Ingestion metrics.
var (
	IngestFilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "ingest_files_total",
			Help:      "Files processed by ingestion runs",
		},
		[]string{"status"}, // "ok" / "skipped"
	)

	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "ingest_chunks_total",
			Help:      "Chunks emitted by ingestion runs",
		},
	)
)

// Query metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "queries_total",
			Help:      "Queries handled per mode",
		},
		[]string{"mode", "status"},
	)

	ClassifierRuleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luminate",
			Name:      "classifier_rule_total",
			Help:      "Classifier decisions per rule fired",
		},
		[]string{"rule"},
	)
)

// RegisterCoreMetrics registers the embedding, ingestion, and query
// collectors. Called once from each binary's composition root.
func RegisterCoreMetrics() {
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingCacheTotal,
		IngestFilesTotal,
		IngestChunksTotal,
		QueriesTotal,
		ClassifierRuleTotal,
	)
}
