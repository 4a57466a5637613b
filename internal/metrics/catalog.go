package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog operation metrics.
var (
	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_results_total",
			Help:      "Total items returned by combined search",
		},
		[]string{"type"},
	)

	SimilarResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "similar_results",
			Help:      "Number of similar products returned per lookup",
			Buckets:   []float64{0, 1, 2, 3},
		},
	)

	ImportedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_records_total",
			Help:      "Total catalog records imported",
		},
		[]string{"type"},
	)

	ImportErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_errors_total",
			Help:      "Total failed catalog imports",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		SearchResultsTotal,
		SimilarResults,
		ImportedRecordsTotal,
		ImportErrorsTotal,
	)
}
