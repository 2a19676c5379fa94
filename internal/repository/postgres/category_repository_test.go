package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myCatalog/domain"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	c := seedCategory(t, db, "Cameras")

	dup := domain.Category{Name: "Cameras"}
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	c.Description = "Mirrorless and DSLR"
	require.NoError(t, repo.Update(ctx, &c))

	got, err := repo.FindByID(ctx, c.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Mirrorless and DSLR", got.Description)

	require.NoError(t, repo.Delete(ctx, c.CategoryID))
	_, err = repo.FindByID(ctx, c.CategoryID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryRepository_UpsertByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	first := domain.Category{Name: "Audio", Description: "v1"}
	require.NoError(t, repo.UpsertByName(ctx, &first))

	second := domain.Category{Name: "Audio", Description: "v2"}
	require.NoError(t, repo.UpsertByName(ctx, &second))

	assert.Equal(t, first.CategoryID, second.CategoryID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Description)
}

func TestCategoryRepository_DeleteWithProducts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := seedCategory(t, db, "Phones")
	seedProduct(t, db, c.CategoryID, "P", 100)

	err := NewCategoryRepository(db).Delete(ctx, c.CategoryID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
