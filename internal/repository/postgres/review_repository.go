package postgres

import (
	"context"
	"fmt"
	"myCatalog/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint64) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, fmt.Errorf("context error: %w", err)
	}

	var review domain.Review
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return domain.Review{}, translate(err, "review")
	}

	return review, nil
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var reviews []domain.Review
	err := r.DB.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC, id DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

func (r *ReviewRepository) ExistsForUser(ctx context.Context, productID uint64, userID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count reviews: %w", err)
	}

	return count > 0, nil
}

// Mutate loads the review with a row lock, applies fn and saves the result in
// the same transaction. An error from fn rolls everything back.
func (r *ReviewRepository) Mutate(ctx context.Context, id uint64, fn func(review *domain.Review) error) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, fmt.Errorf("context error: %w", err)
	}

	var out domain.Review
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review domain.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, id).Error; err != nil {
			return translate(err, "review")
		}

		if err := fn(&review); err != nil {
			return err
		}

		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		out = review
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}

	return out, nil
}

// RecomputeRating locks the product row, hands every review of the product to
// fn and stores the aggregate it returns. Concurrent recomputations of the
// same product are serialized by the lock.
func (r *ReviewRepository) RecomputeRating(ctx context.Context, productID uint64, fn func(reviews []domain.Review) (domain.RatingAggregate, error)) (domain.RatingAggregate, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("context error: %w", err)
	}

	var agg domain.RatingAggregate
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		var err error
		agg, err = storeRating(tx, productID, fn)
		return err
	})
	if err != nil {
		return domain.RatingAggregate{}, err
	}

	return agg, nil
}

// CreateWithRating inserts the review and rebuilds its product's aggregate in
// one transaction. Nothing is stored when either step fails.
func (r *ReviewRepository) CreateWithRating(ctx context.Context, review *domain.Review, fn func(reviews []domain.Review) (domain.RatingAggregate, error)) (domain.RatingAggregate, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("context error: %w", err)
	}

	var agg domain.RatingAggregate
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, review.ProductID); err != nil {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", translate(err, "review"))
		}

		var err error
		agg, err = storeRating(tx, review.ProductID, fn)
		return err
	})
	if err != nil {
		review.ID = 0
		return domain.RatingAggregate{}, err
	}

	return agg, nil
}

// DeleteWithRating removes the review and rebuilds its product's aggregate in
// one transaction.
func (r *ReviewRepository) DeleteWithRating(ctx context.Context, id uint64, fn func(reviews []domain.Review) (domain.RatingAggregate, error)) (domain.RatingAggregate, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("context error: %w", err)
	}

	var agg domain.RatingAggregate
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productID, err := reviewProductID(tx, id)
		if err != nil {
			return err
		}

		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		result := tx.Delete(&domain.Review{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("review %w", domain.ErrNotFound)
		}

		agg, err = storeRating(tx, productID, fn)
		return err
	})
	if err != nil {
		return domain.RatingAggregate{}, err
	}

	return agg, nil
}

// MutateWithRating is Mutate followed by a rating rebuild in the same
// transaction. fn reports whether the change affects the product's rating;
// when it does not, rate is never called.
func (r *ReviewRepository) MutateWithRating(ctx context.Context, id uint64, fn func(review *domain.Review) (bool, error), rate func(reviews []domain.Review) (domain.RatingAggregate, error)) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, fmt.Errorf("context error: %w", err)
	}

	var out domain.Review
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productID, err := reviewProductID(tx, id)
		if err != nil {
			return err
		}

		// product before review, the same order as CreateWithRating and DeleteWithRating
		if err := lockProduct(tx, productID); err != nil {
			return err
		}

		var review domain.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&review, id).Error; err != nil {
			return translate(err, "review")
		}

		affectsRating, err := fn(&review)
		if err != nil {
			return err
		}

		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		if affectsRating {
			if _, err := storeRating(tx, productID, rate); err != nil {
				return err
			}
		}

		out = review
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}

	return out, nil
}

func reviewProductID(tx *gorm.DB, id uint64) (uint64, error) {
	var review domain.Review
	if err := tx.Select("id", "product_id").First(&review, id).Error; err != nil {
		return 0, translate(err, "review")
	}
	return review.ProductID, nil
}

func lockProduct(tx *gorm.DB, productID uint64) error {
	var product domain.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&product, productID).Error; err != nil {
		return translate(err, "product")
	}
	return nil
}

// storeRating expects the product row to be locked by the caller.
func storeRating(tx *gorm.DB, productID uint64, fn func(reviews []domain.Review) (domain.RatingAggregate, error)) (domain.RatingAggregate, error) {
	var reviews []domain.Review
	if err := tx.Where("product_id = ?", productID).Order("id").Find(&reviews).Error; err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("failed to load reviews: %w", err)
	}

	agg, err := fn(reviews)
	if err != nil {
		return domain.RatingAggregate{}, err
	}

	err = tx.Model(&domain.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":       agg.Rating,
		"review_count": agg.ReviewCount,
	}).Error
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("failed to store product rating: %w", err)
	}

	return agg, nil
}
