package compare

import (
	"fmt"

	"myCatalog/domain"
)

func specs(pairs ...string) []domain.Specification {
	out := make([]domain.Specification, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Specification{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func features(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("feature-%d", i)
	}
	return out
}

// scenarioA returns two laptops sharing four of five specification values.
func scenarioA() (domain.ProductSnapshot, domain.ProductSnapshot) {
	p1 := domain.ProductSnapshot{
		ID: 1, CategoryID: 7, Name: "P1",
		Price: 100, Rating: 4.5, ReviewCount: 10,
		Specifications: specs("RAM", "16GB", "CPU", "i7", "Storage", "512GB", "Screen", "14in", "Weight", "1.2kg"),
		Features:       features(3),
	}
	p2 := domain.ProductSnapshot{
		ID: 2, CategoryID: 7, Name: "P2",
		Price: 150, Rating: 4.0, ReviewCount: 50,
		Specifications: specs("RAM", "16GB", "CPU", "i7", "Storage", "512GB", "Screen", "14in", "Weight", "1.5kg"),
		Features:       features(3),
	}
	return p1, p2
}
