package repository

import (
	"context"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByIDCachesInRedis(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewUserRepository(db, cache.NewStore(rdb))
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "cached")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Username)
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))

	require.NoError(t, db.Delete(&models.User{}, u.ID).Error)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Username)
}

func TestUserRepository_WithoutCache(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, cache.NewStore(nil))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "a", Email: "a@example.com"}))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "b", Email: "b@example.com"}))

	err := repo.Create(ctx, &models.User{Username: "a", Email: "other@example.com"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsNotFound(err))

	users, err := repo.List(ctx, Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
