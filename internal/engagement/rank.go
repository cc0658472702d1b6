package engagement

import (
	"cmp"
	"slices"

	"github.com/NirojT/AspBlogBacken/internal/models"
)

// TopN bounds every ranking.
const TopN = 10

// RankBlogs orders scores from highest to lowest, keeping input order among
// equal scores, and returns at most TopN entries. The input is not modified.
func RankBlogs(scores []BlogScore) []BlogScore {
	return rankTop(scores, func(bs BlogScore) int { return bs.Score })
}

// RankAuthors applies the RankBlogs policy to author credit.
func RankAuthors(scores []AuthorScore) []AuthorScore {
	return rankTop(scores, func(as AuthorScore) int { return as.Score })
}

func rankTop[T any](items []T, score func(T) int) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// Leaderboard is the two stage ranking: top blogs first, then authors
// credited only for those blogs.
type Leaderboard struct {
	Blogs   []BlogScore   `json:"blogs"`
	Authors []AuthorScore `json:"authors"`
}

// Rank scores and ranks the snapshots in one pass.
func Rank(blogs []*models.Blog, reactions []*models.Reaction, comments []*models.Comment) Leaderboard {
	topBlogs := RankBlogs(ComputeBlogScores(blogs, reactions, comments))
	return Leaderboard{
		Blogs:   topBlogs,
		Authors: RankAuthors(ComputeAuthorScores(topBlogs)),
	}
}
