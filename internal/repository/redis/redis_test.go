package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewTokenRepository(client), mr
}

func TestStoreAndValidate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreSession(ctx, "7", "admin", "tok-1", time.Hour))

	userID, err := repo.ValidateToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "7", userID)

	data, err := repo.GetTokenData(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "admin", data.Role)
	assert.Equal(t, "tok-1", data.Token)
	assert.WithinDuration(t, data.IssuedAt.Add(time.Hour), data.ExpiresAt, time.Second)
}

func TestNewLoginReplacesSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreSession(ctx, "7", "customer", "old", time.Hour))
	require.NoError(t, repo.StoreSession(ctx, "7", "customer", "new", time.Hour))

	_, err := repo.ValidateToken(ctx, "old")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	userID, err := repo.ValidateToken(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestRevokeSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreSession(ctx, "7", "customer", "tok", time.Hour))
	require.NoError(t, repo.RevokeSession(ctx, "7"))

	_, err := repo.ValidateToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// revoking twice is harmless
	require.NoError(t, repo.RevokeSession(ctx, "7"))
}

func TestSessionExpires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.StoreSession(ctx, "7", "customer", "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.ValidateToken(ctx, "tok")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = repo.GetTokenData(ctx, "7")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
