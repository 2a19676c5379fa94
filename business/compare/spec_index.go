package compare

import (
	"sort"

	"myCatalog/domain"
)

// SpecificationIndex collects specification names and observed values across
// a set of products. Names keep first-seen order.
type SpecificationIndex struct {
	names  []string
	counts map[string]int
	values map[string]map[string]struct{}
}

func NewSpecificationIndex(products []domain.ProductSnapshot) *SpecificationIndex {
	ix := &SpecificationIndex{
		counts: make(map[string]int),
		values: make(map[string]map[string]struct{}),
	}

	for _, p := range products {
		for _, spec := range p.Specifications {
			if _, seen := ix.counts[spec.Name]; !seen {
				ix.names = append(ix.names, spec.Name)
				ix.values[spec.Name] = make(map[string]struct{})
			}
			ix.counts[spec.Name]++
			ix.values[spec.Name][spec.Value] = struct{}{}
		}
	}

	return ix
}

// Names returns the union of specification names, unfiltered.
func (ix *SpecificationIndex) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// TopFrequentSpecs returns the n most frequent names (ties keep first-seen
// order), each with its sorted, deduplicated values.
func (ix *SpecificationIndex) TopFrequentSpecs(n int) []domain.SpecSummary {
	if n <= 0 || len(ix.names) == 0 {
		return []domain.SpecSummary{}
	}

	ordered := ix.Names()
	sort.SliceStable(ordered, func(i, j int) bool {
		return ix.counts[ordered[i]] > ix.counts[ordered[j]]
	})

	if n > len(ordered) {
		n = len(ordered)
	}

	out := make([]domain.SpecSummary, 0, n)
	for _, name := range ordered[:n] {
		out = append(out, domain.SpecSummary{
			Name:      name,
			Frequency: ix.counts[name],
			Values:    ix.sortedValues(name),
		})
	}

	return out
}

// Table lays out one row per indexed name with each product's value in the
// given order. Missing values are empty strings.
func (ix *SpecificationIndex) Table(products []domain.ProductSnapshot) []domain.SpecRow {
	lookups := make([]map[string]string, len(products))
	for i, p := range products {
		lookups[i] = specLookup(p.Specifications)
	}

	rows := make([]domain.SpecRow, 0, len(ix.names))
	for _, name := range ix.names {
		row := domain.SpecRow{Name: name, Values: make([]string, len(products))}
		for i, lookup := range lookups {
			row.Values[i] = lookup[name]
		}
		rows = append(rows, row)
	}

	return rows
}

func (ix *SpecificationIndex) sortedValues(name string) []string {
	set := ix.values[name]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// specLookup maps name -> value. When a product repeats a name the first
// entry wins.
func specLookup(specs []domain.Specification) map[string]string {
	lookup := make(map[string]string, len(specs))
	for _, spec := range specs {
		if _, exists := lookup[spec.Name]; exists {
			continue
		}
		lookup[spec.Name] = spec.Value
	}
	return lookup
}
