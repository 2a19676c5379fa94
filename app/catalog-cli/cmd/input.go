package cmd

import (
	"fmt"
	"os"
	"strings"

	"myCatalog/domain"

	"github.com/goccy/go-json"
)

// catalogFile is the on-disk product catalog shared by every subcommand.
type catalogFile struct {
	Categories []domain.Category `json:"categories"`
	Products   []fileProduct     `json:"products"`
}

type fileProduct struct {
	ID             uint64                 `json:"id"`
	Category       string                 `json:"category"`
	CategoryID     uint64                 `json:"category_id"`
	Name           string                 `json:"name"`
	Brand          string                 `json:"brand"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	Stock          int                    `json:"stock"`
	ImageURL       string                 `json:"image_url"`
	Rating         float64                `json:"rating"`
	ReviewCount    int                    `json:"review_count"`
	Specifications []domain.Specification `json:"specifications"`
	Features       []string               `json:"features"`
}

func readCatalog(path string) (catalogFile, error) {
	var catalog catalogFile

	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("failed to read catalog file: %w", err)
	}

	if err := json.Unmarshal(raw, &catalog); err != nil {
		return catalog, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	return catalog, nil
}

// snapshots converts file products for the comparison engine. Products that
// only name their category get a stable id per distinct name, in file order.
func (c catalogFile) snapshots() []domain.ProductSnapshot {
	categoryIDs := make(map[string]uint64)
	for _, cat := range c.Categories {
		if cat.CategoryID != 0 {
			categoryIDs[strings.ToLower(cat.Name)] = cat.CategoryID
		}
	}
	next := uint64(1)
	for _, id := range categoryIDs {
		if id >= next {
			next = id + 1
		}
	}

	out := make([]domain.ProductSnapshot, 0, len(c.Products))
	for i, p := range c.Products {
		categoryID := p.CategoryID
		if categoryID == 0 {
			key := strings.ToLower(p.Category)
			id, ok := categoryIDs[key]
			if !ok {
				id = next
				next++
				categoryIDs[key] = id
			}
			categoryID = id
		}

		id := p.ID
		if id == 0 {
			id = uint64(i + 1)
		}

		out = append(out, domain.ProductSnapshot{
			ID:             id,
			CategoryID:     categoryID,
			Name:           p.Name,
			Price:          p.Price,
			Rating:         p.Rating,
			ReviewCount:    p.ReviewCount,
			Specifications: p.Specifications,
			Features:       p.Features,
		})
	}

	return out
}

func (p fileProduct) toProduct(categoryID uint64) *domain.Product {
	return &domain.Product{
		CategoryID:     categoryID,
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		Specifications: p.Specifications,
		Features:       p.Features,
	}
}
