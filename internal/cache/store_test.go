package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb)
}

func TestStore_AsideFetchesOnceThenServesFromRedis(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()
	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 4, Name: "ana"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, store.Aside(ctx, UserKey(4), &first, UserTTL, fetch(&first)))
	var second cachedUser
	require.NoError(t, store.Aside(ctx, UserKey(4), &second, UserTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("user:4"))

	store.Invalidate(ctx, UserKey(4))
	assert.False(t, mr.Exists("user:4"))
}

func TestStore_AsidePropagatesFetchError(t *testing.T) {
	_, store := newStore(t)
	boom := errors.New("boom")

	var dest cachedUser
	err := store.Aside(context.Background(), UserKey(1), &dest, time.Minute, func() error { return boom })

	assert.ErrorIs(t, err, boom)
}

func TestStore_WithoutRedisPassesThrough(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	calls := 0

	for i := 0; i < 2; i++ {
		var dest cachedUser
		err := store.Aside(ctx, UserKey(1), &dest, time.Minute, func() error {
			calls++
			dest = cachedUser{ID: 1}
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, calls)
	assert.False(t, store.Enabled())
	store.Invalidate(ctx, UserKey(1))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:12", UserKey(12))
	assert.Equal(t, "ws_ticket:abc", WSTicketKey("abc"))
}
