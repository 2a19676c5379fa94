package compare

import (
	"fmt"
	"math"
	"sort"

	"myCatalog/domain"
)

const (
	ReasonBestPrice     = "Best price value"
	ReasonHighestRating = "Highest customer rating"
	ReasonMostReviews   = "Most customer reviews"
	ReasonMostSpecs     = "Most detailed specifications"
	ReasonMostFeatures  = "Most features included"
)

const (
	DefaultPriceWeight         = 30.0
	DefaultRatingWeight        = 25.0
	DefaultReviewCountWeight   = 15.0
	DefaultSpecificationWeight = 20.0
	DefaultFeatureWeight       = 10.0
)

// Weights of each best-choice criterion. The defaults sum to 100.
type Weights struct {
	Price         float64 `json:"price"`
	Rating        float64 `json:"rating"`
	ReviewCount   float64 `json:"review_count"`
	Specification float64 `json:"specification"`
	Feature       float64 `json:"feature"`
}

func DefaultWeights() Weights {
	return Weights{
		Price:         DefaultPriceWeight,
		Rating:        DefaultRatingWeight,
		ReviewCount:   DefaultReviewCountWeight,
		Specification: DefaultSpecificationWeight,
		Feature:       DefaultFeatureWeight,
	}
}

// Validate rejects negative or non-finite weights. A zero weight switches its
// criterion off.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"price", w.Price},
		{"rating", w.Rating},
		{"review_count", w.ReviewCount},
		{"specification", w.Specification},
		{"feature", w.Feature},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s weight must be a finite number >= 0, got %v", domain.ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}

type Ranker struct {
	weights Weights
}

func NewRanker(weights Weights) *Ranker {
	return &Ranker{weights: weights}
}

// criterion describes one scored dimension. lowerIsBetter flips the
// normalization to (max - v) / (max - min).
type criterion struct {
	value         func(domain.ProductSnapshot) float64
	weight        float64
	lowerIsBetter bool
	reason        string
	// reason is only awarded when the extremum is strictly positive
	needsPositive bool
}

func (r *Ranker) criteria() []criterion {
	return []criterion{
		{
			value:         func(p domain.ProductSnapshot) float64 { return p.Price },
			weight:        r.weights.Price,
			lowerIsBetter: true,
			reason:        ReasonBestPrice,
		},
		{
			value:         func(p domain.ProductSnapshot) float64 { return p.Rating },
			weight:        r.weights.Rating,
			reason:        ReasonHighestRating,
			needsPositive: true,
		},
		{
			value:         func(p domain.ProductSnapshot) float64 { return float64(p.ReviewCount) },
			weight:        r.weights.ReviewCount,
			reason:        ReasonMostReviews,
			needsPositive: true,
		},
		{
			value:  func(p domain.ProductSnapshot) float64 { return float64(len(p.Specifications)) },
			weight: r.weights.Specification,
			reason: ReasonMostSpecs,
		},
		{
			value:  func(p domain.ProductSnapshot) float64 { return float64(len(p.Features)) },
			weight: r.weights.Feature,
			reason: ReasonMostFeatures,
		},
	}
}

// RankAll scores every candidate and returns them best first. Equal scores
// keep selection order.
func (r *Ranker) RankAll(selection []domain.ProductSnapshot) ([]domain.RankedCandidate, error) {
	if err := r.weights.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSelection(selection); err != nil {
		return nil, err
	}

	ranked := make([]domain.RankedCandidate, len(selection))
	for i, p := range selection {
		ranked[i] = domain.RankedCandidate{Product: p, Reasons: []string{}}
	}

	for _, c := range r.criteria() {
		if c.weight == 0 {
			continue
		}

		values := make([]float64, len(selection))
		for i, p := range selection {
			values[i] = c.value(p)
		}

		lo, hi := minMax(values)
		if hi == lo {
			continue
		}

		for i, v := range values {
			if c.lowerIsBetter {
				ranked[i].Score += (hi - v) / (hi - lo) * c.weight
				continue
			}
			if hi > 0 {
				ranked[i].Score += v / hi * c.weight
			}
		}

		best := hi
		if c.lowerIsBetter {
			best = lo
		}
		if c.needsPositive && best <= 0 {
			continue
		}
		if idx, sole := soleIndexOf(values, best); sole {
			ranked[idx].Reasons = append(ranked[idx].Reasons, c.reason)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}

// Rank returns the best choice of the selection.
func (r *Ranker) Rank(selection []domain.ProductSnapshot) (domain.RankedCandidate, error) {
	ranked, err := r.RankAll(selection)
	if err != nil {
		return domain.RankedCandidate{}, err
	}
	return ranked[0], nil
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func soleIndexOf(values []float64, target float64) (int, bool) {
	idx := -1
	for i, v := range values {
		if v != target {
			continue
		}
		if idx >= 0 {
			return -1, false
		}
		idx = i
	}
	return idx, idx >= 0
}
