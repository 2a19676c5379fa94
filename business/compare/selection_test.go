package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myCatalog/domain"
)

func snapshot(id, category uint64) domain.ProductSnapshot {
	return domain.ProductSnapshot{ID: id, CategoryID: category}
}

func TestSelection_Transitions(t *testing.T) {
	s := NewSelection(5)
	assert.Equal(t, SelectionEmpty, s.Status())
	assert.False(t, s.Ready())

	require.NoError(t, s.Add(snapshot(1, 5)))
	assert.Equal(t, SelectionPartial, s.Status())
	assert.False(t, s.Ready())

	require.NoError(t, s.Add(snapshot(2, 5)))
	assert.True(t, s.Ready())

	require.NoError(t, s.Add(snapshot(3, 5)))
	assert.Equal(t, SelectionFull, s.Status())

	err := s.Add(snapshot(4, 5))
	assert.ErrorIs(t, err, ErrSelectionFull)
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Remove(2))
	assert.Equal(t, SelectionPartial, s.Status())
	assert.Equal(t, []uint64{1, 3}, ids(s.Items()))

	assert.False(t, s.Remove(42))
	assert.Equal(t, 2, s.Len())
}

func TestSelection_RejectsDuplicateAndForeignCategory(t *testing.T) {
	s := NewSelection(5)
	require.NoError(t, s.Add(snapshot(1, 5)))

	assert.ErrorIs(t, s.Add(snapshot(1, 5)), ErrAlreadySelected)
	assert.ErrorIs(t, s.Add(snapshot(2, 6)), ErrCategoryMismatch)
	assert.Equal(t, 1, s.Len())
}

func TestSelection_AdoptsFirstCategory(t *testing.T) {
	s := NewSelection(0)
	require.NoError(t, s.Add(snapshot(1, 8)))

	assert.Equal(t, uint64(8), s.CategoryID())
	assert.ErrorIs(t, s.Add(snapshot(2, 9)), domain.ErrContractViolation)
}

func TestSelection_ChangeCategory(t *testing.T) {
	t.Run("keeps pinned item of new category", func(t *testing.T) {
		s := NewSelection(0)
		require.NoError(t, s.Add(snapshot(1, 8)))

		s.ChangeCategory(8)
		assert.Equal(t, []uint64{1}, ids(s.Items()))
		assert.Equal(t, SelectionPartial, s.Status())
	})

	t.Run("clears pinned item of other category", func(t *testing.T) {
		s := NewSelection(8)
		require.NoError(t, s.Add(snapshot(1, 8)))

		s.ChangeCategory(9)
		assert.Equal(t, SelectionEmpty, s.Status())
		assert.Equal(t, uint64(9), s.CategoryID())
	})

	t.Run("clears multi item selection", func(t *testing.T) {
		s := NewSelection(8)
		require.NoError(t, s.Add(snapshot(1, 8)))
		require.NoError(t, s.Add(snapshot(2, 8)))

		s.ChangeCategory(8)
		assert.Equal(t, SelectionEmpty, s.Status())
	})
}

func TestSelection_ItemsIsACopy(t *testing.T) {
	s := NewSelection(1)
	require.NoError(t, s.Add(snapshot(1, 1)))

	items := s.Items()
	items[0].ID = 99

	assert.Equal(t, []uint64{1}, ids(s.Items()))
}

func ids(items []domain.ProductSnapshot) []uint64 {
	out := make([]uint64, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
