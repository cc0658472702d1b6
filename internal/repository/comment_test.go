package repository

import (
	"context"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_DeleteKeepsReplies(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	blog := testutil.CreateBlog(t, db, u.ID, "b")
	root := testutil.CreateComment(t, db, blog.ID, u.ID, "root", nil)
	reply := testutil.CreateComment(t, db, blog.ID, u.ID, "reply", &root.ID)
	testutil.CreateCommentReaction(t, db, root.ID, u.ID, models.ReactionUpvote)
	testutil.CreateCommentReaction(t, db, reply.ID, u.ID, models.ReactionUpvote)

	require.NoError(t, repo.Delete(ctx, root.ID))

	_, err := repo.GetByID(ctx, root.ID)
	assert.True(t, models.IsNotFound(err))

	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, "reply", got.Content)

	var reactions int64
	db.Model(&models.Reaction{}).Count(&reactions)
	assert.Equal(t, int64(1), reactions)

	assert.True(t, models.IsNotFound(repo.Delete(ctx, root.ID)))
}

func TestCommentRepository_ListThread(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	blog := testutil.CreateBlog(t, db, u.ID, "b")
	otherBlog := testutil.CreateBlog(t, db, u.ID, "other")
	root := testutil.CreateComment(t, db, blog.ID, u.ID, "root", nil)
	testutil.CreateComment(t, db, blog.ID, u.ID, "r1", &root.ID)
	testutil.CreateComment(t, db, blog.ID, u.ID, "r2", &root.ID)
	testutil.CreateComment(t, db, blog.ID, u.ID, "unrelated", nil)

	thread, err := repo.ListThread(ctx, root.ID, blog.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"root", "r1", "r2"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})

	empty, err := repo.ListThread(ctx, root.ID, otherBlog.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_ListByBlogAndCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	a := testutil.CreateBlog(t, db, u.ID, "a")
	b := testutil.CreateBlog(t, db, u.ID, "b")
	c1 := testutil.CreateComment(t, db, a.ID, u.ID, "first", nil)
	testutil.CreateComment(t, db, a.ID, u.ID, "second", &c1.ID)
	testutil.CreateComment(t, db, b.ID, u.ID, "third", nil)
	testutil.CreateCommentReaction(t, db, c1.ID, u.ID, models.ReactionUpvote)

	got, err := repo.ListByBlog(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Reactions, 1)
	require.NotNil(t, got[0].User)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
