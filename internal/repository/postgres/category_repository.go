package postgres

import (
	"context"
	"fmt"
	"myCatalog/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		DB: db,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translate(err, "category"))
	}

	return nil
}

// UpsertByName creates the category or refreshes the description of the one
// with the same name, then loads its id into category.
func (r *CategoryRepository) UpsertByName(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description"}),
		}).
		Create(category).Error
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return r.DB.WithContext(ctx).Where("name = ?", category.Name).First(category).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	var category domain.Category

	err := r.DB.WithContext(ctx).Where("category_id = ?", id).First(&category).Error
	if err != nil {
		return domain.Category{}, translate(err, "category")
	}

	return category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var categories []domain.Category
	err := r.DB.WithContext(ctx).Order("category_id").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Category{}).Where("category_id = ?", category.CategoryID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", translate(result.Error, "category"))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %w", domain.ErrNotFound)
	}

	return nil
}

// Delete refuses to drop a category that still has products.
func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var products int64
	if err := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if products > 0 {
		return fmt.Errorf("%w: category still has %d products", domain.ErrInvalidInput, products)
	}

	result := r.DB.WithContext(ctx).Where("category_id = ?", id).Delete(&domain.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %w", domain.ErrNotFound)
	}

	return nil
}
