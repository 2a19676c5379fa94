package compare

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ComparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_comparisons_total",
			Help: "Count of comparison requests by selection size and outcome.",
		},
		[]string{"size", "outcome"},
	)

	SimilarityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_comparison_similarity_score",
			Help:    "Distribution of selection similarity scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

func init() {
	prometheus.MustRegister(ComparisonsTotal, SimilarityScore)
}
