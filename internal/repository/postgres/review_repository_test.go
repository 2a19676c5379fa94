package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"myCatalog/domain"
)

func newReview(productID uint64, userID uint, rating int) domain.Review {
	return domain.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  "user",
		Rating:    rating,
		Text:      "text",
		Likes:     datatypes.JSONSlice[uint]{},
		Dislikes:  datatypes.JSONSlice[uint]{},
		Replies:   datatypes.JSONSlice[domain.Reply]{},
		Status:    domain.ReviewStatusActive,
	}
}

// meanRating is a plain aggregate for exercising the store.
func meanRating(productID uint64) func([]domain.Review) (domain.RatingAggregate, error) {
	return func(reviews []domain.Review) (domain.RatingAggregate, error) {
		agg := domain.RatingAggregate{ProductID: productID, ReviewCount: len(reviews)}
		if len(reviews) == 0 {
			return agg, nil
		}

		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		agg.Rating = float64(sum) / float64(len(reviews))
		return agg, nil
	}
}

func createReview(ctx context.Context, repo *ReviewRepository, r *domain.Review) error {
	_, err := repo.CreateWithRating(ctx, r, meanRating(r.ProductID))
	return err
}

func TestReviewRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)

	r := newReview(p.ID, 1, 4)
	require.NoError(t, createReview(ctx, repo, &r))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, domain.ReviewStatusActive, got.Status)
	assert.Empty(t, got.Likes)

	exists, err := repo.ExistsForUser(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForUser(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	dup := newReview(p.ID, 1, 2)
	assert.ErrorIs(t, createReview(ctx, repo, &dup), domain.ErrDuplicate)

	list, err := repo.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReviewRepository_Mutate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)
	r := newReview(p.ID, 1, 4)
	require.NoError(t, createReview(ctx, repo, &r))

	updated, err := repo.Mutate(ctx, r.ID, func(review *domain.Review) error {
		review.Likes = append(review.Likes, 7)
		review.Replies = append(review.Replies, domain.Reply{ID: "r1", UserID: 7, Text: "agreed"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSONSlice[uint]{7}, updated.Likes)

	stored, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSONSlice[uint]{7}, stored.Likes)
	require.Len(t, stored.Replies, 1)
	assert.Equal(t, "agreed", stored.Replies[0].Text)

	boom := errors.New("boom")
	_, err = repo.Mutate(ctx, r.ID, func(review *domain.Review) error {
		review.Likes = nil
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err = repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Likes, 1, "failed mutation must not be persisted")

	_, err = repo.Mutate(ctx, 4242, func(*domain.Review) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_RecomputeRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)
	for i, rating := range []int{5, 3, 4} {
		r := newReview(p.ID, uint(i+1), rating)
		require.NoError(t, createReview(ctx, repo, &r))
	}

	var seen int
	agg, err := repo.RecomputeRating(ctx, p.ID, func(reviews []domain.Review) (domain.RatingAggregate, error) {
		seen = len(reviews)
		return domain.RatingAggregate{ProductID: p.ID, Rating: 4.0, ReviewCount: len(reviews)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.Equal(t, 3, agg.ReviewCount)

	stored, err := NewProductRepository(db).FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, 3, stored.ReviewCount)

	_, err = repo.RecomputeRating(ctx, 4242, func([]domain.Review) (domain.RatingAggregate, error) {
		return domain.RatingAggregate{}, nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_CreateWithRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	products := NewProductRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)

	r := newReview(p.ID, 1, 4)
	agg, err := repo.CreateWithRating(ctx, &r, meanRating(p.ID))
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, domain.RatingAggregate{ProductID: p.ID, Rating: 4.0, ReviewCount: 1}, agg)

	stored, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, 1, stored.ReviewCount)

	// a failing aggregate rolls the insert back
	boom := errors.New("boom")
	failed := newReview(p.ID, 2, 1)
	_, err = repo.CreateWithRating(ctx, &failed, func([]domain.Review) (domain.RatingAggregate, error) {
		return domain.RatingAggregate{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, failed.ID)

	exists, err := repo.ExistsForUser(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	stored, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReviewCount)

	orphan := newReview(4242, 3, 5)
	_, err = repo.CreateWithRating(ctx, &orphan, meanRating(4242))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_MutateWithRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	products := NewProductRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)
	r := newReview(p.ID, 1, 4)
	require.NoError(t, createReview(ctx, repo, &r))

	updated, err := repo.MutateWithRating(ctx, r.ID, func(review *domain.Review) (bool, error) {
		review.Rating = 2
		return true, nil
	}, meanRating(p.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	stored, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, stored.Rating)

	boom := errors.New("boom")
	_, err = repo.MutateWithRating(ctx, r.ID, func(review *domain.Review) (bool, error) {
		review.Rating = 5
		return true, nil
	}, func([]domain.Review) (domain.RatingAggregate, error) {
		return domain.RatingAggregate{}, boom
	})
	assert.ErrorIs(t, err, boom)

	review, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, review.Rating, "edit must roll back with the failed aggregate")

	called := false
	_, err = repo.MutateWithRating(ctx, r.ID, func(review *domain.Review) (bool, error) {
		review.Title = "only the title"
		return false, nil
	}, func([]domain.Review) (domain.RatingAggregate, error) {
		called = true
		return domain.RatingAggregate{}, nil
	})
	require.NoError(t, err)
	assert.False(t, called)

	_, err = repo.MutateWithRating(ctx, 4242, func(*domain.Review) (bool, error) { return false, nil }, meanRating(p.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_DeleteWithRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	products := NewProductRepository(db)

	cat := seedCategory(t, db, "Laptops")
	p := seedProduct(t, db, cat.CategoryID, "A", 10)
	first := newReview(p.ID, 1, 5)
	second := newReview(p.ID, 2, 3)
	require.NoError(t, createReview(ctx, repo, &first))
	require.NoError(t, createReview(ctx, repo, &second))

	boom := errors.New("boom")
	_, err := repo.DeleteWithRating(ctx, second.ID, func([]domain.Review) (domain.RatingAggregate, error) {
		return domain.RatingAggregate{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByID(ctx, second.ID)
	require.NoError(t, err, "failed delete must keep the review")

	agg, err := repo.DeleteWithRating(ctx, second.ID, meanRating(p.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.RatingAggregate{ProductID: p.ID, Rating: 5.0, ReviewCount: 1}, agg)

	stored, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Rating)
	assert.Equal(t, 1, stored.ReviewCount)

	_, err = repo.DeleteWithRating(ctx, second.ID, meanRating(p.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
