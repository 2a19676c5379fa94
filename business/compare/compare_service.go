package compare

import (
	"context"
	"fmt"
	"myCatalog/domain"
	"myCatalog/pkg/logger"
	"strconv"
)

// ProductRepository is the read side of the catalog the engine needs.
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
	FindByCategory(ctx context.Context, categoryID uint64) ([]domain.Product, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

type compareService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	ranker       *Ranker
	topSpecs     int
}

func NewCompareService(productRepo ProductRepository, categoryRepo CategoryRepository, ranker *Ranker, topSpecs int) *compareService {
	if ranker == nil {
		ranker = NewRanker(DefaultWeights())
	}

	return &compareService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		ranker:       ranker,
		topSpecs:     topSpecs,
	}
}

// Compare loads the requested products, keeps them in request order and
// returns similarity, ranking and the side-by-side specification table.
func (s *compareService) Compare(ctx context.Context, categoryID uint64, productIDs []uint64) (domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when comparing products")
		return domain.ComparisonResult{}, fmt.Errorf("context error: %w", err)
	}

	size := strconv.Itoa(len(productIDs))

	if len(productIDs) < MinSelection {
		ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
		return domain.ComparisonResult{}, ErrSelectionTooSmall
	}
	if len(productIDs) > MaxSelection {
		ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
		return domain.ComparisonResult{}, ErrSelectionTooLarge
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		logger.Error("failed to find category for comparison", err)
		ComparisonsTotal.WithLabelValues(size, "error").Inc()
		return domain.ComparisonResult{}, err
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		logger.Error("failed to load products for comparison", err)
		ComparisonsTotal.WithLabelValues(size, "error").Inc()
		return domain.ComparisonResult{}, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	selection := NewSelection(categoryID)
	for _, id := range productIDs {
		p, ok := byID[id]
		if !ok {
			ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
			return domain.ComparisonResult{}, fmt.Errorf("product %d %w", id, domain.ErrNotFound)
		}
		if err := selection.Add(p.Snapshot()); err != nil {
			ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
			return domain.ComparisonResult{}, fmt.Errorf("product %d: %w", id, err)
		}
	}

	items := selection.Items()

	similarity, err := SelectionSimilarity(items)
	if err != nil {
		ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
		return domain.ComparisonResult{}, err
	}

	ranking, err := s.ranker.RankAll(items)
	if err != nil {
		ComparisonsTotal.WithLabelValues(size, "rejected").Inc()
		return domain.ComparisonResult{}, err
	}

	ComparisonsTotal.WithLabelValues(size, "ok").Inc()
	SimilarityScore.Observe(float64(similarity.Score))

	logger.Debug("comparison computed", append(logger.WithTrace(ctx),
		"category_id", categoryID,
		"similarity", similarity.Score,
		"best_choice", ranking[0].Product.ID,
	)...)

	return domain.ComparisonResult{
		CategoryID: categoryID,
		Products:   items,
		Similarity: similarity,
		BestChoice: ranking[0],
		Ranking:    ranking,
		Table:      NewSpecificationIndex(items).Table(items),
	}, nil
}

// CategorySpecs returns the most frequent specification names of a category,
// used to build its filter sidebar. n <= 0 falls back to the configured default.
func (s *compareService) CategorySpecs(ctx context.Context, categoryID uint64, n int) ([]domain.SpecSummary, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing category specs")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if n <= 0 {
		n = s.topSpecs
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		logger.Error("failed to find category", err)
		return nil, err
	}

	products, err := s.productRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		logger.Error("failed to find products by category", err)
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	snapshots := make([]domain.ProductSnapshot, len(products))
	for i, p := range products {
		snapshots[i] = p.Snapshot()
	}

	return NewSpecificationIndex(snapshots).TopFrequentSpecs(n), nil
}
