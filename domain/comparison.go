package domain

// SpecSummary is one specification name with every value observed for it.
type SpecSummary struct {
	Name      string   `json:"name"`
	Frequency int      `json:"frequency"`
	Values    []string `json:"values"`
}

// SpecRow is one line of the comparison table; Values follow selection order.
type SpecRow struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type SimilarityResult struct {
	Score int `json:"score"`
}

type RankedCandidate struct {
	Product ProductSnapshot `json:"product"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons"`
}

type ComparisonResult struct {
	CategoryID uint64            `json:"category_id"`
	Products   []ProductSnapshot `json:"products"`
	Similarity SimilarityResult  `json:"similarity"`
	BestChoice RankedCandidate   `json:"best_choice"`
	Ranking    []RankedCandidate `json:"ranking"`
	Table      []SpecRow         `json:"table"`
}
