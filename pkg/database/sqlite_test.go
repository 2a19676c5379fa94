package database

import (
	"path/filepath"
	"testing"

	"myCatalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := InitSQLite(path)
	require.NoError(t, err)

	require.NoError(t, db.Create(&domain.Category{Name: "Laptops"}).Error)
	require.NoError(t, Close(db))

	// schema and data survive a reopen
	db, err = InitSQLite(path)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	var count int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	for _, table := range []string{"categories", "products", "users", "reviews"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
