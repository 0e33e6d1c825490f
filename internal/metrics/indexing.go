package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing run metrics.
var (
	IndexRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resindex",
			Name:      "index_records_total",
			Help:      "Catalog records processed by outcome",
		},
		[]string{"outcome"}, // indexed / skipped / failed
	)

	IndexRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resindex",
			Name:      "index_run_duration_seconds",
			Help:      "Full indexing run duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resindex",
			Name:      "queries_total",
			Help:      "Similarity queries by status",
		},
		[]string{"status"}, // ok / embed_error / store_error
	)
)

var indexMetricsRegistered bool

// RegisterIndexingMetrics registers indexing and query metrics. Must be called once from main.
func RegisterIndexingMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexRecordsTotal)
	prometheus.MustRegister(IndexRunDuration)
	prometheus.MustRegister(QueriesTotal)
	indexMetricsRegistered = true
}
