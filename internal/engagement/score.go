package engagement

import "github.com/NirojT/AspBlogBacken/internal/models"

// Score weights. These are policy constants, not configuration.
const (
	UpvoteWeight   = 2
	DownvoteWeight = -1
	CommentWeight  = 1
)

// BlogScore is the engagement tally of one blog.
type BlogScore struct {
	BlogID    uint `json:"blog_id"`
	AuthorID  uint `json:"author_id"`
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
	Comments  int  `json:"comments"`
	Score     int  `json:"score"`
}

// AuthorScore is the credit an author earns from ranked blogs.
type AuthorScore struct {
	AuthorID uint `json:"author_id"`
	Score    int  `json:"score"`
}

// BlogScores keeps the order in which blogs were supplied.
type BlogScores []BlogScore

// ByID indexes the scores by blog id.
func (s BlogScores) ByID() map[uint]int {
	out := make(map[uint]int, len(s))
	for _, bs := range s {
		out[bs.BlogID] = bs.Score
	}
	return out
}

// ComputeBlogScores scores every blog as
// UpvoteWeight*upvotes + DownvoteWeight*downvotes + CommentWeight*comments.
//
// Reactions without a blog target and comments on unknown blogs are ignored.
// The result follows the order of blogs and runs in
// O(len(blogs)+len(reactions)+len(comments)).
func ComputeBlogScores(blogs []*models.Blog, reactions []*models.Reaction, comments []*models.Comment) BlogScores {
	tally := make(map[uint]*BlogScore, len(blogs))
	out := make(BlogScores, 0, len(blogs))
	for _, b := range blogs {
		if b == nil {
			continue
		}
		if _, seen := tally[b.ID]; seen {
			continue
		}
		out = append(out, BlogScore{BlogID: b.ID, AuthorID: b.UserID})
		tally[b.ID] = nil
	}
	for i := range out {
		tally[out[i].BlogID] = &out[i]
	}

	for _, r := range reactions {
		if r == nil || r.BlogID == nil {
			continue
		}
		bs := tally[*r.BlogID]
		if bs == nil {
			continue
		}
		switch {
		case r.IsUpvote():
			bs.Upvotes++
		case r.IsDownvote():
			bs.Downvotes++
		}
	}

	for _, c := range comments {
		if c == nil {
			continue
		}
		if bs := tally[c.BlogID]; bs != nil {
			bs.Comments++
		}
	}

	for i := range out {
		out[i].Score = UpvoteWeight*out[i].Upvotes + DownvoteWeight*out[i].Downvotes + CommentWeight*out[i].Comments
	}
	return out
}

// ComputeAuthorScores sums the scores of the already ranked blogs per author.
// Authors appear in the order of their first ranked blog; authors without a
// ranked blog get no entry.
func ComputeAuthorScores(ranked []BlogScore) []AuthorScore {
	index := make(map[uint]int, len(ranked))
	out := make([]AuthorScore, 0, len(ranked))
	for _, bs := range ranked {
		i, ok := index[bs.AuthorID]
		if !ok {
			index[bs.AuthorID] = len(out)
			out = append(out, AuthorScore{AuthorID: bs.AuthorID, Score: bs.Score})
			continue
		}
		out[i].Score += bs.Score
	}
	return out
}
