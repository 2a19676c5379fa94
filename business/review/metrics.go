package review

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReviewMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_review_mutations_total",
			Help: "Count of review mutations by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	RatingRecomputationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_product_rating_recomputations_total",
			Help: "Count of full product rating recomputations.",
		},
	)
)

func init() {
	prometheus.MustRegister(ReviewMutationsTotal, RatingRecomputationsTotal)
}
