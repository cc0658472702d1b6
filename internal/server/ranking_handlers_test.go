package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaderboardBody struct {
	TopBlogs []struct {
		Blog      *models.Blog `json:"blog"`
		Score     int          `json:"score"`
		Upvotes   int          `json:"upvotes"`
		Downvotes int          `json:"downvotes"`
		Comments  int          `json:"comments"`
	} `json:"top_blogs"`
	TopAuthors []struct {
		AuthorID uint         `json:"author_id"`
		Author   *models.User `json:"author"`
		Score    int          `json:"score"`
	} `json:"top_authors"`
}

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")
	bob := env.user("bob")

	// alice: 2 up, 1 down, 1 comment => 4. bob: 1 comment => 1.
	a := testutil.CreateBlog(t, env.db, alice.ID, "Go")
	b := testutil.CreateBlog(t, env.db, bob.ID, "Rust")
	testutil.CreateBlogReaction(t, env.db, a.ID, bob.ID, models.ReactionUpvote)
	testutil.CreateBlogReaction(t, env.db, a.ID, alice.ID, "UPVOTE")
	testutil.CreateBlogReaction(t, env.db, a.ID, bob.ID, models.ReactionDownvote)
	testutil.CreateComment(t, env.db, a.ID, bob.ID, "nice", nil)
	c := testutil.CreateComment(t, env.db, b.ID, alice.ID, "hm", nil)

	// Comment reactions never count towards a blog.
	testutil.CreateCommentReaction(t, env.db, c.ID, bob.ID, models.ReactionUpvote)

	resp := env.do(http.MethodGet, "/api/leaderboard", 0, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var board leaderboardBody
	env.decode(resp, &board)

	require.Len(t, board.TopBlogs, 2)
	assert.Equal(t, a.ID, board.TopBlogs[0].Blog.ID)
	assert.Equal(t, 4, board.TopBlogs[0].Score)
	assert.Equal(t, 2, board.TopBlogs[0].Upvotes)
	assert.Equal(t, 1, board.TopBlogs[0].Downvotes)
	assert.Equal(t, 1, board.TopBlogs[0].Comments)
	assert.Equal(t, b.ID, board.TopBlogs[1].Blog.ID)
	assert.Equal(t, 1, board.TopBlogs[1].Score)

	require.Len(t, board.TopAuthors, 2)
	assert.Equal(t, alice.ID, board.TopAuthors[0].AuthorID)
	assert.Equal(t, 4, board.TopAuthors[0].Score)
	require.NotNil(t, board.TopAuthors[0].Author)
	assert.Equal(t, "alice", board.TopAuthors[0].Author.Username)
	assert.Equal(t, bob.ID, board.TopAuthors[1].AuthorID)
}

func TestGetLeaderboard_TopTenOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")
	bob := env.user("bob")

	for i := 0; i < 10; i++ {
		blog := testutil.CreateBlog(t, env.db, alice.ID, fmt.Sprintf("A%d", i))
		testutil.CreateComment(t, env.db, blog.ID, bob.ID, "x", nil)
	}
	// Score 0 ranks eleventh, so bob earns no author credit.
	testutil.CreateBlog(t, env.db, bob.ID, "B")

	var board leaderboardBody
	env.decode(env.do(http.MethodGet, "/api/leaderboard", 0, nil), &board)

	require.Len(t, board.TopBlogs, 10)
	for _, row := range board.TopBlogs {
		assert.Equal(t, alice.ID, row.Blog.UserID)
	}
	require.Len(t, board.TopAuthors, 1)
	assert.Equal(t, alice.ID, board.TopAuthors[0].AuthorID)
	assert.Equal(t, 10, board.TopAuthors[0].Score)
}

func TestGetLeaderboard_Empty(t *testing.T) {
	env := newTestEnv(t)

	var board leaderboardBody
	env.decode(env.do(http.MethodGet, "/api/leaderboard", 0, nil), &board)
	assert.Empty(t, board.TopBlogs)
	assert.Empty(t, board.TopAuthors)
}
