package product

import (
	"context"
	"fmt"
	"myCatalog/domain"
	"myCatalog/pkg/logger"
	"strings"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByCategory(ctx context.Context, categoryID uint64) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Category, error)
}

// Filter narrows a product listing. Specs holds name -> value pairs that must
// all match.
type Filter struct {
	CategoryID uint64
	Specs      map[string]string
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
}

func NewProductService(productRepo ProductRepository, categoryRepo CategoryRepository) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context, filter Filter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	var (
		products []domain.Product
		err      error
	)
	if filter.CategoryID != 0 {
		products, err = s.productRepo.FindByCategory(ctx, filter.CategoryID)
	} else {
		products, err = s.productRepo.FindAll(ctx)
	}
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	if len(filter.Specs) == 0 {
		return products, nil
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesSpecs(p, filter.Specs) {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, fmt.Errorf("%w: invalid product id", domain.ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	// rating fields are owned by the review aggregate
	product.Rating = 0
	product.ReviewCount = 0

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, fmt.Errorf("%w: product ID is required", domain.ErrInvalidInput)
	}

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	// Verify product exists
	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("product not found", err)
		return nil, err
	}

	product.Rating = existing.Rating
	product.ReviewCount = existing.ReviewCount
	product.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Get updated product from database
	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated success")

	return &updatedProduct, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid product id when deleting product")
		return fmt.Errorf("%w: invalid product id", domain.ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify product exists
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		logger.Error("product not found", err)
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logger.Info("product deleted success")

	return nil
}

func (s *productService) validate(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}

	if product.Price <= 0 {
		logger.Error("Invalid product data: price must be greater than 0")
		return fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	}

	if product.Stock < 0 {
		logger.Error("Invalid product data: stock cannot be negative")
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}

	for i, spec := range product.Specifications {
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("%w: specification %d has no name", domain.ErrInvalidInput, i)
		}
	}

	if product.CategoryID == 0 {
		logger.Error("Invalid product data: category is required")
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}

	if _, err := s.categoryRepo.FindByID(ctx, product.CategoryID); err != nil {
		logger.Error("product category not found", err)
		return err
	}

	return nil
}

func matchesSpecs(p domain.Product, want map[string]string) bool {
	got := make(map[string]string, len(p.Specifications))
	for _, spec := range p.Specifications {
		if _, exists := got[spec.Name]; !exists {
			got[spec.Name] = spec.Value
		}
	}

	for name, value := range want {
		if v, ok := got[name]; !ok || v != value {
			return false
		}
	}
	return true
}
