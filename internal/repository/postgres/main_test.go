package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"myCatalog/domain"
	"myCatalog/pkg/database"
)

// newTestDB opens a private in-memory SQLite database with the catalog schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) domain.Category {
	t.Helper()

	c := domain.Category{Name: name}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), &c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uint64, name string, price float64, specs ...domain.Specification) domain.Product {
	t.Helper()

	p := domain.Product{
		CategoryID:     categoryID,
		Name:           name,
		Price:          price,
		Specifications: datatypes.JSONSlice[domain.Specification](specs),
		Features:       datatypes.JSONSlice[string]{"wifi"},
	}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), &p))
	return p
}
