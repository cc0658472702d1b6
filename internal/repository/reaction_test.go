package repository

import (
	"context"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_CreateRejectsBadTargets(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	blog := testutil.CreateBlog(t, db, u.ID, "b")
	comment := testutil.CreateComment(t, db, blog.ID, u.ID, "c", nil)

	tests := []struct {
		name      string
		blogID    *uint
		commentID *uint
	}{
		{"both targets", &blog.ID, &comment.ID},
		{"no target", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &models.Reaction{Kind: "upvote", UserID: u.ID, BlogID: tt.blogID, CommentID: tt.commentID})
			assert.Equal(t, models.CodeInvariantViolation, models.ErrorCode(err))
		})
	}

	var n int64
	db.Model(&models.Reaction{}).Count(&n)
	assert.Zero(t, n)
}

func TestReactionRepository_CountsAndFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	blog := testutil.CreateBlog(t, db, u.ID, "b")
	comment := testutil.CreateComment(t, db, blog.ID, u.ID, "c", nil)

	testutil.CreateBlogReaction(t, db, blog.ID, u.ID, "UpVote")
	testutil.CreateBlogReaction(t, db, blog.ID, u.ID, models.ReactionUpvote)
	testutil.CreateBlogReaction(t, db, blog.ID, u.ID, models.ReactionDownvote)
	testutil.CreateCommentReaction(t, db, comment.ID, u.ID, "laugh")

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCounts{Reacts: 4, Upvotes: 2, Downvotes: 1}, counts)

	blogTargeted, err := repo.ListBlogTargeted(ctx)
	require.NoError(t, err)
	assert.Len(t, blogTargeted, 3)

	byComment, err := repo.ListByComment(ctx, comment.ID)
	require.NoError(t, err)
	require.Len(t, byComment, 1)
	assert.Equal(t, "laugh", byComment[0].Kind)
}

func TestReactionRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	blog := testutil.CreateBlog(t, db, u.ID, "b")
	r := testutil.CreateBlogReaction(t, db, blog.ID, u.ID, models.ReactionUpvote)

	r.Kind = models.ReactionDownvote
	require.NoError(t, repo.Update(ctx, r))

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDownvote, got.Kind)

	require.NoError(t, repo.Delete(ctx, r.ID))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, r.ID)))
}
