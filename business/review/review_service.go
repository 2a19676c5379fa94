package review

import (
	"context"
	"errors"
	"fmt"
	"myCatalog/domain"
	"myCatalog/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RatingFunc turns a product's stored reviews into its aggregate.
type RatingFunc = func(reviews []domain.Review) (domain.RatingAggregate, error)

// ReviewRepository is the review store. Every write method runs as one atomic
// unit; the *WithRating variants also rebuild the product aggregate inside
// that unit, so a failed rebuild leaves the review untouched.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Review, error)
	FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error)
	ExistsForUser(ctx context.Context, productID uint64, userID uint) (bool, error)
	CreateWithRating(ctx context.Context, review *domain.Review, fn RatingFunc) (domain.RatingAggregate, error)
	DeleteWithRating(ctx context.Context, id uint64, fn RatingFunc) (domain.RatingAggregate, error)
	Mutate(ctx context.Context, id uint64, fn func(review *domain.Review) error) (domain.Review, error)
	MutateWithRating(ctx context.Context, id uint64, fn func(review *domain.Review) (bool, error), rate RatingFunc) (domain.Review, error)
	RecomputeRating(ctx context.Context, productID uint64, fn RatingFunc) (domain.RatingAggregate, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

type reviewService struct {
	reviewRepo      ReviewRepository
	productRepo     ProductRepository
	includeDisabled bool
	now             func() time.Time
}

// NewReviewService builds the review service. includeDisabled controls whether
// moderated reviews still count toward product ratings.
func NewReviewService(reviewRepo ReviewRepository, productRepo ProductRepository, includeDisabled bool) *reviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		productRepo:     productRepo,
		includeDisabled: includeDisabled,
		now:             time.Now,
	}
}

func (s *reviewService) Create(ctx context.Context, actor domain.Actor, review *domain.Review) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create review")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if actor.UserID == 0 {
		return nil, fmt.Errorf("%w: login required", domain.ErrForbidden)
	}

	if err := ValidateRating(review.Rating); err != nil {
		return nil, err
	}

	review.Title = strings.TrimSpace(review.Title)
	review.Text = strings.TrimSpace(review.Text)
	if review.Text == "" {
		return nil, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
	}

	if _, err := s.productRepo.FindByID(ctx, review.ProductID); err != nil {
		logger.Error("failed to find product for review", err)
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForUser(ctx, review.ProductID, actor.UserID)
	if err != nil {
		logger.Error("failed to check existing review", err)
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		ReviewMutationsTotal.WithLabelValues("create", "duplicate").Inc()
		return nil, fmt.Errorf("%w: user already reviewed this product", domain.ErrDuplicate)
	}

	review.ID = 0
	review.UserID = actor.UserID
	review.UserName = actor.UserName
	review.Likes = datatypes.JSONSlice[uint]{}
	review.Dislikes = datatypes.JSONSlice[uint]{}
	review.Replies = datatypes.JSONSlice[domain.Reply]{}
	review.IsEdited = false
	review.Status = domain.ReviewStatusActive

	if _, err := s.reviewRepo.CreateWithRating(ctx, review, s.rating(review.ProductID)); err != nil {
		s.logWriteError("failed to create review", review.ProductID, err)
		ReviewMutationsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	RatingRecomputationsTotal.Inc()

	ReviewMutationsTotal.WithLabelValues("create", "ok").Inc()
	logger.Info("review created", append(logger.WithTrace(ctx), "review_id", review.ID, "product_id", review.ProductID)...)

	return s.view(*review, actor)
}

func (s *reviewService) Update(ctx context.Context, actor domain.Actor, id uint64, patch domain.ReviewPatch) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when update review")
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		outcome   EditOutcome
		productID uint64
		rerated   bool
	)
	updated, err := s.reviewRepo.MutateWithRating(ctx, id, func(r *domain.Review) (bool, error) {
		productID = r.ProductID
		if err := s.visible(*r, actor); err != nil {
			return false, err
		}
		if !actor.IsAdmin() && r.UserID != actor.UserID {
			return false, fmt.Errorf("%w: only the author or an admin can edit a review", domain.ErrForbidden)
		}

		var err error
		outcome, err = ApplyEdit(r, patch)
		if err != nil {
			return false, err
		}
		rerated = outcome.RatingChanged && CountsTowardRating(*r, s.includeDisabled)
		return rerated, nil
	}, s.ratingFor(&productID))
	if err != nil {
		s.logWriteError("failed to update review", productID, err)
		ReviewMutationsTotal.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	if rerated {
		RatingRecomputationsTotal.Inc()
	}

	ReviewMutationsTotal.WithLabelValues("update", "ok").Inc()
	return s.view(updated, actor)
}

// SetStatus is admin-only moderation.
func (s *reviewService) SetStatus(ctx context.Context, actor domain.Actor, id uint64, status domain.ReviewStatus) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when moderate review")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can moderate reviews", domain.ErrForbidden)
	}

	var productID uint64
	updated, err := s.reviewRepo.MutateWithRating(ctx, id, func(r *domain.Review) (bool, error) {
		productID = r.ProductID
		changed, err := SetStatus(r, status)
		if err != nil {
			return false, err
		}
		return changed && !s.includeDisabled, nil
	}, s.ratingFor(&productID))
	if err != nil {
		s.logWriteError("failed to set review status", productID, err)
		ReviewMutationsTotal.WithLabelValues("status", "error").Inc()
		return nil, err
	}

	ReviewMutationsTotal.WithLabelValues("status", "ok").Inc()
	logger.Info("review status changed", append(logger.WithTrace(ctx), "review_id", id, "status", string(status))...)

	return s.view(updated, actor)
}

func (s *reviewService) Delete(ctx context.Context, actor domain.Actor, id uint64) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when delete review")
		return fmt.Errorf("context error: %w", err)
	}

	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find review", err)
		return err
	}

	if !actor.IsAdmin() && review.UserID != actor.UserID {
		return fmt.Errorf("%w: only the author or an admin can delete a review", domain.ErrForbidden)
	}

	if _, err := s.reviewRepo.DeleteWithRating(ctx, id, s.rating(review.ProductID)); err != nil {
		s.logWriteError("failed to delete review", review.ProductID, err)
		ReviewMutationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete review: %w", err)
	}
	RatingRecomputationsTotal.Inc()

	ReviewMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (s *reviewService) Like(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error) {
	return s.vote(ctx, actor, id, "like", Like)
}

func (s *reviewService) Dislike(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error) {
	return s.vote(ctx, actor, id, "dislike", Dislike)
}

func (s *reviewService) vote(ctx context.Context, actor domain.Actor, id uint64, action string, toggle func(*domain.Review, uint) Vote) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when " + action + " review")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if actor.UserID == 0 {
		return nil, fmt.Errorf("%w: login required", domain.ErrForbidden)
	}

	updated, err := s.reviewRepo.Mutate(ctx, id, func(r *domain.Review) error {
		if err := s.visible(*r, actor); err != nil {
			return err
		}
		// a document already holding a user in both sets is refused, not rewritten
		if _, err := ComputeDerived(*r, actor.UserID); err != nil {
			return err
		}
		toggle(r, actor.UserID)
		return nil
	})
	if err != nil {
		logger.Error("failed to "+action+" review", err)
		ReviewMutationsTotal.WithLabelValues(action, "error").Inc()
		return nil, err
	}

	ReviewMutationsTotal.WithLabelValues(action, "ok").Inc()
	return s.view(updated, actor)
}

func (s *reviewService) AddReply(ctx context.Context, actor domain.Actor, id uint64, text string) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when add reply")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if actor.UserID == 0 {
		return nil, fmt.Errorf("%w: login required", domain.ErrForbidden)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: reply text is required", domain.ErrInvalidInput)
	}

	reply := domain.Reply{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		UserName:  actor.UserName,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}

	updated, err := s.reviewRepo.Mutate(ctx, id, func(r *domain.Review) error {
		if err := s.visible(*r, actor); err != nil {
			return err
		}
		AddReply(r, reply)
		return nil
	})
	if err != nil {
		logger.Error("failed to add reply", err)
		ReviewMutationsTotal.WithLabelValues("reply_add", "error").Inc()
		return nil, err
	}

	ReviewMutationsTotal.WithLabelValues("reply_add", "ok").Inc()
	return s.view(updated, actor)
}

// RemoveReply lets the reply author or an admin delete a reply.
func (s *reviewService) RemoveReply(ctx context.Context, actor domain.Actor, id uint64, replyID string) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when remove reply")
		return nil, fmt.Errorf("context error: %w", err)
	}

	updated, err := s.reviewRepo.Mutate(ctx, id, func(r *domain.Review) error {
		reply, ok := FindReply(*r, replyID)
		if !ok {
			return fmt.Errorf("reply %w", domain.ErrNotFound)
		}
		if !actor.IsAdmin() && reply.UserID != actor.UserID {
			return fmt.Errorf("%w: only the reply author or an admin can remove a reply", domain.ErrForbidden)
		}
		RemoveReply(r, replyID)
		return nil
	})
	if err != nil {
		logger.Error("failed to remove reply", err)
		ReviewMutationsTotal.WithLabelValues("reply_remove", "error").Inc()
		return nil, err
	}

	ReviewMutationsTotal.WithLabelValues("reply_remove", "ok").Inc()
	return s.view(updated, actor)
}

func (s *reviewService) Get(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get review")
		return nil, fmt.Errorf("context error: %w", err)
	}

	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find review", err)
		return nil, err
	}

	if err := s.visible(review, actor); err != nil {
		return nil, err
	}

	return s.view(review, actor)
}

// ListByProduct returns the product's reviews. Disabled reviews are only
// listed for admins.
func (s *reviewService) ListByProduct(ctx context.Context, actor domain.Actor, productID uint64) ([]domain.ReviewView, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when list reviews")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		logger.Error("failed to find product", err)
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		logger.Error("failed to find reviews by product", err)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	views := make([]domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		if s.visible(r, actor) != nil {
			continue
		}

		v, err := s.view(r, actor)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	return views, nil
}

// RecomputeAll rebuilds every product's rating from its reviews.
func (s *reviewService) RecomputeAll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when recompute ratings")
		return 0, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to find all product", err)
		return 0, fmt.Errorf("failed to find products: %w", err)
	}

	count := 0
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return count, fmt.Errorf("context error: %w", err)
		}
		if _, err := s.recompute(ctx, p.ID); err != nil {
			return count, err
		}
		count++
	}

	logger.Info("product ratings recomputed", "products", count)
	return count, nil
}

// RecomputeProduct rebuilds a single product's rating.
func (s *reviewService) RecomputeProduct(ctx context.Context, productID uint64) (domain.RatingAggregate, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("context error: %w", err)
	}
	return s.recompute(ctx, productID)
}

func (s *reviewService) recompute(ctx context.Context, productID uint64) (domain.RatingAggregate, error) {
	agg, err := s.reviewRepo.RecomputeRating(ctx, productID, s.rating(productID))
	if err != nil {
		s.logWriteError("failed to recompute product rating", productID, err)
		return domain.RatingAggregate{}, fmt.Errorf("failed to recompute product rating: %w", err)
	}

	RatingRecomputationsTotal.Inc()
	return agg, nil
}

// rating builds the aggregate from the reviews that count toward it.
func (s *reviewService) rating(productID uint64) RatingFunc {
	return func(reviews []domain.Review) (domain.RatingAggregate, error) {
		counted := make([]domain.Review, 0, len(reviews))
		for _, r := range reviews {
			if CountsTowardRating(r, s.includeDisabled) {
				counted = append(counted, r)
			}
		}
		return RecomputeProductRating(productID, counted)
	}
}

// ratingFor reads productID only when the store calls back, after the
// mutation callback has filled it in.
func (s *reviewService) ratingFor(productID *uint64) RatingFunc {
	return func(reviews []domain.Review) (domain.RatingAggregate, error) {
		return s.rating(*productID)(reviews)
	}
}

func (s *reviewService) logWriteError(msg string, productID uint64, err error) {
	switch {
	case errors.Is(err, domain.ErrInvariantBreach):
		logger.Error("stored review violates rating invariant", "product_id", productID, "error", err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrInvalidInput):
		logger.Warn(msg, "error", err)
	default:
		logger.Error(msg, err)
	}
}

// visible hides disabled reviews from everyone but admins.
func (s *reviewService) visible(r domain.Review, actor domain.Actor) error {
	if r.Status == domain.ReviewStatusDisabled && !actor.IsAdmin() {
		return fmt.Errorf("review %w", domain.ErrNotFound)
	}
	return nil
}

func (s *reviewService) view(r domain.Review, actor domain.Actor) (*domain.ReviewView, error) {
	derived, err := ComputeDerived(r, actor.UserID)
	if err != nil {
		logger.Error("review derived state is inconsistent", "review_id", r.ID, "error", err)
		return nil, err
	}

	return &domain.ReviewView{Review: r, ReviewDerived: derived}, nil
}
