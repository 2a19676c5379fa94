package rest

import (
	"context"
	"errors"
	"myCatalog/business/product"
	"myCatalog/domain"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, filter product.Filter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type ProductRequest struct {
	CategoryID     uint64                 `json:"category_id" validate:"required"`
	Name           string                 `json:"name" validate:"required"`
	Brand          string                 `json:"brand"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price" validate:"required,gt=0"`
	Stock          int                    `json:"stock" validate:"gte=0"`
	ImageURL       string                 `json:"image_url" validate:"omitempty,url"`
	Specifications []domain.Specification `json:"specifications" validate:"dive"`
	Features       []string               `json:"features"`
}

func (r ProductRequest) toProduct() *domain.Product {
	return &domain.Product{
		CategoryID:     r.CategoryID,
		Name:           r.Name,
		Brand:          r.Brand,
		Description:    r.Description,
		Price:          r.Price,
		Stock:          r.Stock,
		ImageURL:       r.ImageURL,
		Specifications: r.Specifications,
		Features:       r.Features,
	}
}

// parseFilter reads ?category_id=3&spec=RAM:16GB&spec=Storage:512GB.
func parseFilter(c echo.Context) (product.Filter, error) {
	var filter product.Filter

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid category_id")
		}
		filter.CategoryID = id
	}

	for _, pair := range c.QueryParams()["spec"] {
		name, value, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return filter, errors.New("spec filter must be name:value")
		}
		if filter.Specs == nil {
			filter.Specs = make(map[string]string)
		}
		filter.Specs[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return filter, nil
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, "Invalid product filter", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, filter)
	if err != nil {
		return fail(c, "Failed to find all Product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		return fail(c, "Failed to find product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": product,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to bind request", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate product request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProduct, err := h.productService.CreateProduct(ctx, req.toProduct())
	if err != nil {
		return fail(c, "Failed to create Product", err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product successfully created",
		"product": newProduct,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id", err)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Failed to bind request", err)
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Failed to validate product request", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product := req.toProduct()
	product.ID = productID

	updated, err := h.productService.UpdateProduct(ctx, product)
	if err != nil {
		return fail(c, "Failed to update Product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update product",
		"product": updated,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product id", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		return fail(c, "Failed to delete Product", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "product successfully deleted",
		"product_id": productID,
	})
}
