package compare

import (
	"math"

	"myCatalog/domain"
)

// PairwiseSimilarity is the percentage (0..100) of specification names in the
// union of a and b whose values match exactly. Two products without any
// specifications are considered identical.
func PairwiseSimilarity(a, b domain.ProductSnapshot) int {
	lookupA := specLookup(a.Specifications)
	lookupB := specLookup(b.Specifications)

	union := make(map[string]struct{}, len(lookupA)+len(lookupB))
	for name := range lookupA {
		union[name] = struct{}{}
	}
	for name := range lookupB {
		union[name] = struct{}{}
	}

	if len(union) == 0 {
		return 100
	}

	matches := 0
	for name := range union {
		va, okA := lookupA[name]
		vb, okB := lookupB[name]
		if okA && okB && va == vb {
			matches++
		}
	}

	return int(math.Round(100 * float64(matches) / float64(len(union))))
}

// SelectionSimilarity scores a 2 or 3 product selection. For three products it
// is the mean of the three pairwise scores, rounded half up.
func SelectionSimilarity(selection []domain.ProductSnapshot) (domain.SimilarityResult, error) {
	if err := ValidateSelection(selection); err != nil {
		return domain.SimilarityResult{}, err
	}

	if len(selection) == 2 {
		return domain.SimilarityResult{Score: PairwiseSimilarity(selection[0], selection[1])}, nil
	}

	sum := 0
	for i := 0; i < len(selection); i++ {
		for j := i + 1; j < len(selection); j++ {
			sum += PairwiseSimilarity(selection[i], selection[j])
		}
	}

	return domain.SimilarityResult{Score: meanRounded(sum, 3)}, nil
}

func meanRounded(sum, n int) int {
	return int(math.Floor(float64(sum)/float64(n) + 0.5))
}
