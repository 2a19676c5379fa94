package rest

import (
	"context"
	"myCatalog/domain"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	Create(ctx context.Context, actor domain.Actor, review *domain.Review) (*domain.ReviewView, error)
	Update(ctx context.Context, actor domain.Actor, id uint64, patch domain.ReviewPatch) (*domain.ReviewView, error)
	SetStatus(ctx context.Context, actor domain.Actor, id uint64, status domain.ReviewStatus) (*domain.ReviewView, error)
	Delete(ctx context.Context, actor domain.Actor, id uint64) error
	Like(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error)
	Dislike(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error)
	AddReply(ctx context.Context, actor domain.Actor, id uint64, text string) (*domain.ReviewView, error)
	RemoveReply(ctx context.Context, actor domain.Actor, id uint64, replyID string) (*domain.ReviewView, error)
	Get(ctx context.Context, actor domain.Actor, id uint64) (*domain.ReviewView, error)
	ListByProduct(ctx context.Context, actor domain.Actor, productID uint64) ([]domain.ReviewView, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title" validate:"max=200"`
	Text   string `json:"text" validate:"required,max=5000"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Title  *string `json:"title" validate:"omitempty,max=200"`
	Text   *string `json:"text" validate:"omitempty,max=5000"`
}

type ReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled"`
}

type ReplyRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.ListByProduct(ctx, actorFrom(c), productID)
	if err != nil {
		return fail(c, "Failed to list reviews", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviews))
}

func (h *ReviewHandler) Create(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id", err)
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate review request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.Create(ctx, actorFrom(c), &domain.Review{
		ProductID: productID,
		Rating:    req.Rating,
		Title:     req.Title,
		Text:      req.Text,
	})
	if err != nil {
		return fail(c, "Failed to create review", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(review))
}

func (h *ReviewHandler) Get(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.Get(ctx, actorFrom(c), reviewID)
	if err != nil {
		return fail(c, "Failed to get review", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate review request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.Update(ctx, actorFrom(c), reviewID, domain.ReviewPatch{
		Rating: req.Rating,
		Title:  req.Title,
		Text:   req.Text,
	})
	if err != nil {
		return fail(c, "Failed to update review", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) SetStatus(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	var req ReviewStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate status request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.SetStatus(ctx, actorFrom(c), reviewID, domain.ReviewStatus(req.Status))
	if err != nil {
		return fail(c, "Failed to change review status", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reviewService.Delete(ctx, actorFrom(c), reviewID); err != nil {
		return fail(c, "Failed to delete review", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Review deleted successfully"))
}

func (h *ReviewHandler) Like(c echo.Context) error {
	return h.vote(c, h.reviewService.Like)
}

func (h *ReviewHandler) Dislike(c echo.Context) error {
	return h.vote(c, h.reviewService.Dislike)
}

func (h *ReviewHandler) vote(c echo.Context, toggle func(context.Context, domain.Actor, uint64) (*domain.ReviewView, error)) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := toggle(ctx, actorFrom(c), reviewID)
	if err != nil {
		return fail(c, "Failed to vote on review", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}

func (h *ReviewHandler) AddReply(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	var req ReplyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate reply request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.AddReply(ctx, actorFrom(c), reviewID, req.Text)
	if err != nil {
		return fail(c, "Failed to add reply", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(review))
}

func (h *ReviewHandler) RemoveReply(c echo.Context) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid review id", err)
	}

	replyID := c.Param("replyId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review, err := h.reviewService.RemoveReply(ctx, actorFrom(c), reviewID, replyID)
	if err != nil {
		return fail(c, "Failed to remove reply", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(review))
}
