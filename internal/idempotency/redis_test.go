package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr
}

func TestReserveOnlyOnce(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "buyer-1:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("idempotent-key:buyer-1:abc"))

	ok, err = store.Reserve(ctx, "buyer-1:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseAllowsRetry(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k"))

	ok, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReservationExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	ok, err := store.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
