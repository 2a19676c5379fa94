package rest

import (
	"context"
	"errors"
	"myCatalog/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CompareService interface {
	Compare(ctx context.Context, categoryID uint64, productIDs []uint64) (domain.ComparisonResult, error)
	CategorySpecs(ctx context.Context, categoryID uint64, n int) ([]domain.SpecSummary, error)
}

type CompareHandler struct {
	compareService CompareService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewCompareHandler(compareService CompareService) *CompareHandler {
	return &CompareHandler{
		compareService: compareService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

// CompareRequest size bounds are checked again by the engine; the tags only
// reject obviously malformed bodies early.
type CompareRequest struct {
	CategoryID uint64   `json:"category_id" validate:"required"`
	ProductIDs []uint64 `json:"product_ids" validate:"required,min=2,max=3,dive,required"`
}

func (h *CompareHandler) Compare(c echo.Context) error {
	var req CompareRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate compare request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.compareService.Compare(ctx, req.CategoryID, req.ProductIDs)
	if err != nil {
		return fail(c, "Failed to compare products", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// CategorySpecs serves the filter facets of a category. n defaults to the
// configured top-specs count.
func (h *CompareHandler) CategorySpecs(c echo.Context) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category id", err)
	}

	n := 0
	if raw := c.QueryParam("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest(c, "Invalid n", errors.New("n must be a non-negative integer"))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	specs, err := h.compareService.CategorySpecs(ctx, categoryID, n)
	if err != nil {
		return fail(c, "Failed to get category specifications", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(specs))
}
