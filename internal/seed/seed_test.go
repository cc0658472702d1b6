package seed

import (
	"context"
	"testing"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.NumUsers = 5
	opts.NumBlogs = 6
	opts.BatchSize = 7
	opts.RandSeed = 42
	return opts
}

func TestFactory_BuildBlogWithinWindow(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, MaxDays: 30, RandSeed: 1})
	author := &models.User{ID: 7}

	for i := 0; i < 20; i++ {
		b := f.BuildBlog(author)
		assert.Equal(t, uint(7), b.UserID)
		assert.NotEmpty(t, b.Title)
		assert.Contains(t, b.Content, "## ")
		assert.Less(t, time.Since(b.CreatedAt), 31*24*time.Hour)
	}
}

func TestFactory_ReplyAttachesToRoot(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, RandSeed: 1})
	user := &models.User{ID: 1}
	blog := &models.Blog{ID: 3}

	root := f.BuildComment(blog, user, nil)
	root.ID = 10
	reply := f.BuildComment(blog, user, root)
	reply.ID = 11
	nested := f.BuildComment(blog, user, reply)

	require.NotNil(t, nested.ParentCommentID)
	assert.Equal(t, uint(10), *nested.ParentCommentID)
	assert.Equal(t, uint(3), nested.BlogID)
}

func TestSeed_DryRunWritesNothing(t *testing.T) {
	opts := smallOptions()
	opts.DryRun = true

	summary, err := Seed(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 6, summary.Blogs)
}

func TestSeed_PopulatesGraph(t *testing.T) {
	db := testutil.NewTestDB(t)

	summary, err := Seed(context.Background(), db, smallOptions())
	require.NoError(t, err)

	count := func(model any) int {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return int(n)
	}
	assert.Equal(t, summary.Users, count(&models.User{}))
	assert.Equal(t, summary.Blogs, count(&models.Blog{}))
	assert.Equal(t, summary.Comments+summary.Replies, count(&models.Comment{}))
	assert.Equal(t, summary.Reactions, count(&models.Reaction{}))

	var reactions []models.Reaction
	require.NoError(t, db.Find(&reactions).Error)
	for i := range reactions {
		assert.NoError(t, reactions[i].ValidateTarget())
	}

	var replies []models.Comment
	require.NoError(t, db.Where("parent_comment_id IS NOT NULL").Find(&replies).Error)
	assert.Len(t, replies, summary.Replies)
	for _, reply := range replies {
		var parent models.Comment
		require.NoError(t, db.First(&parent, *reply.ParentCommentID).Error)
		assert.Nil(t, parent.ParentCommentID, "replies hang off root comments")
		assert.Equal(t, parent.BlogID, reply.BlogID)
	}
}

func TestSeed_CleanReplacesPreviousRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := Seed(ctx, db, smallOptions())
	require.NoError(t, err)

	opts := smallOptions()
	opts.ShouldClean = true
	opts.NumUsers = 3
	opts.NumBlogs = 2
	summary, err := Seed(ctx, db, opts)
	require.NoError(t, err)

	var users, blogs int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Blog{}).Count(&blogs).Error)
	assert.Equal(t, int64(summary.Users), users)
	assert.Equal(t, int64(summary.Blogs), blogs)
}

func TestSeed_RequiresUsers(t *testing.T) {
	_, err := Seed(context.Background(), nil, Options{DryRun: true})
	assert.Error(t, err)
}
