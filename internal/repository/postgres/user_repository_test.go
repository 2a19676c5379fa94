package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myCatalog/domain"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := domain.User{FullName: "Ada", Email: "ada@example.com", Password: "hash", Role: domain.RoleCustomer}
	require.NoError(t, repo.Create(ctx, &u))
	require.NotZero(t, u.ID)

	dup := domain.User{FullName: "Ada 2", Email: "ada@example.com", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, repo.UpdateEmailVerification(ctx, u.ID, true))

	got, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	got.Role = domain.RoleAdmin
	require.NoError(t, repo.Update(ctx, &got))

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, byID.Role)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
