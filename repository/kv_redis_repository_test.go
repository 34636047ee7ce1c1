package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisKV(t *testing.T) (*KVRedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVRedisRepository(client, time.Hour), mr
}

func TestKVRedisRepository(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedisKV(t)

	_, err := repo.Get(ctx, "sess-a", "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, "sess-a", "cart", `[{"id":"101"}]`))
	require.NoError(t, repo.Set(ctx, "sess-b", "cart", `[]`))

	value, err := repo.Get(ctx, "sess-a", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"101"}]`, value)
	assert.Equal(t, `[{"id":"101"}]`, mr.HGet("storefront:session:sess-a", "cart"))
	assert.Equal(t, time.Hour, mr.TTL("storefront:session:sess-a"))

	require.NoError(t, repo.Delete(ctx, "sess-a", "cart"))
	_, err = repo.Get(ctx, "sess-a", "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	value, err = repo.Get(ctx, "sess-b", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value, "scopes are isolated")

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, "sess-b", "cart")
	assert.ErrorIs(t, err, ErrNotFound, "idle sessions expire")
}

func TestKVRedisRepository_BacksPreferences(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRedisKV(t)
	prefs := NewPreferenceRepository(repo, "sess-a", "18", zap.NewNop())

	id, err := prefs.EnsureOrderID(ctx)
	require.NoError(t, err)

	again, err := NewPreferenceRepository(repo, "sess-a", "18", zap.NewNop()).GetOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
