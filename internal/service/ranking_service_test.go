package service

import (
	"context"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingService_Leaderboard(t *testing.T) {
	f := newFixture(t)
	svc := NewRankingService(f.blogs, f.reactions, f.comments)
	ctx := context.Background()

	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	// B: 3 upvotes, 1 downvote, 2 comments => 7
	b := testutil.CreateBlog(t, f.db, alice.ID, "B")
	for i := 0; i < 3; i++ {
		testutil.CreateBlogReaction(t, f.db, b.ID, bob.ID, "Upvote")
	}
	testutil.CreateBlogReaction(t, f.db, b.ID, bob.ID, models.ReactionDownvote)
	c := testutil.CreateComment(t, f.db, b.ID, bob.ID, "one", nil)
	testutil.CreateComment(t, f.db, b.ID, bob.ID, "two", &c.ID)
	// Comment reactions never count toward the blog.
	testutil.CreateCommentReaction(t, f.db, c.ID, alice.ID, models.ReactionUpvote)

	// X: 1 upvote => 2, Y: nothing => 0, Z: 2 downvotes => -2
	x := testutil.CreateBlog(t, f.db, bob.ID, "X")
	testutil.CreateBlogReaction(t, f.db, x.ID, alice.ID, models.ReactionUpvote)
	testutil.CreateBlog(t, f.db, alice.ID, "Y")
	z := testutil.CreateBlog(t, f.db, bob.ID, "Z")
	testutil.CreateBlogReaction(t, f.db, z.ID, alice.ID, models.ReactionDownvote)
	testutil.CreateBlogReaction(t, f.db, z.ID, alice.ID, models.ReactionDownvote)

	board, err := svc.Leaderboard(ctx)
	require.NoError(t, err)

	type row struct {
		Title string
		Score int
	}
	var got []row
	for _, rb := range board.TopBlogs {
		require.NotNil(t, rb.Blog)
		got = append(got, row{rb.Blog.Title, rb.Score})
	}
	want := []row{{"B", 7}, {"X", 2}, {"Y", 0}, {"Z", -2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("top blogs mismatch (-want +got):\n%s", diff)
	}

	first := board.TopBlogs[0]
	assert.Equal(t, 3, first.Upvotes)
	assert.Equal(t, 1, first.Downvotes)
	assert.Equal(t, 2, first.Comments)

	require.Len(t, board.TopAuthors, 2)
	assert.Equal(t, alice.ID, board.TopAuthors[0].AuthorID)
	assert.Equal(t, 7, board.TopAuthors[0].Score)
	require.NotNil(t, board.TopAuthors[0].Author)
	assert.Equal(t, "alice", board.TopAuthors[0].Author.Username)
	assert.Equal(t, bob.ID, board.TopAuthors[1].AuthorID)
	assert.Equal(t, 0, board.TopAuthors[1].Score)
}

func TestRankingService_TruncatesToTen(t *testing.T) {
	f := newFixture(t)
	svc := NewRankingService(f.blogs, f.reactions, f.comments)

	u := testutil.CreateUser(t, f.db, "u")
	for i := 0; i < 13; i++ {
		testutil.CreateBlog(t, f.db, u.ID, "blog")
	}

	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, board.TopBlogs, 10)
	require.Len(t, board.TopAuthors, 1)
	assert.Zero(t, board.TopAuthors[0].Score)
}

func TestRankingService_Empty(t *testing.T) {
	f := newFixture(t)
	svc := NewRankingService(f.blogs, f.reactions, f.comments)

	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, board.TopBlogs)
	assert.Empty(t, board.TopBlogs)
	assert.Empty(t, board.TopAuthors)
}
