package service

import (
	"context"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/engagement"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"
	"github.com/NirojT/AspBlogBacken/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RankedBlog is one leaderboard row.
type RankedBlog struct {
	Blog      *models.Blog `json:"blog"`
	Score     int          `json:"score"`
	Upvotes   int          `json:"upvotes"`
	Downvotes int          `json:"downvotes"`
	Comments  int          `json:"comments"`
}

// RankedAuthor is an author credited by the ranked blogs. Author is nil when
// the account no longer resolves.
type RankedAuthor struct {
	AuthorID uint         `json:"author_id"`
	Author   *models.User `json:"author,omitempty"`
	Score    int          `json:"score"`
}

type Leaderboard struct {
	TopBlogs   []RankedBlog   `json:"top_blogs"`
	TopAuthors []RankedAuthor `json:"top_authors"`
}

// RankingService computes the leaderboard from a fresh snapshot on every
// call: one bulk read per collection.
type RankingService struct {
	blogRepo     repository.BlogRepository
	reactionRepo repository.ReactionRepository
	commentRepo  repository.CommentRepository
}

func NewRankingService(
	blogRepo repository.BlogRepository,
	reactionRepo repository.ReactionRepository,
	commentRepo repository.CommentRepository,
) *RankingService {
	return &RankingService{blogRepo: blogRepo, reactionRepo: reactionRepo, commentRepo: commentRepo}
}

func (s *RankingService) Leaderboard(ctx context.Context) (board *Leaderboard, err error) {
	ctx, span := observability.StartSpan(ctx, "RankingService", "Leaderboard")
	start := time.Now()
	defer func() {
		observability.RankingDuration.Observe(time.Since(start).Seconds())
		observability.EndSpan(span, err)
	}()

	blogs, err := s.blogRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reactions, err := s.reactionRepo.ListBlogTargeted(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := engagement.Rank(blogs, reactions, comments)

	blogsByID := make(map[uint]*models.Blog, len(blogs))
	authorsByID := make(map[uint]*models.User)
	for _, b := range blogs {
		if b == nil {
			continue
		}
		blogsByID[b.ID] = b
		if b.User != nil {
			authorsByID[b.UserID] = b.User
		}
	}

	board = &Leaderboard{
		TopBlogs:   make([]RankedBlog, 0, len(ranked.Blogs)),
		TopAuthors: make([]RankedAuthor, 0, len(ranked.Authors)),
	}
	for _, bs := range ranked.Blogs {
		board.TopBlogs = append(board.TopBlogs, RankedBlog{
			Blog:      blogsByID[bs.BlogID],
			Score:     bs.Score,
			Upvotes:   bs.Upvotes,
			Downvotes: bs.Downvotes,
			Comments:  bs.Comments,
		})
	}
	for _, as := range ranked.Authors {
		board.TopAuthors = append(board.TopAuthors, RankedAuthor{
			AuthorID: as.AuthorID,
			Author:   authorsByID[as.AuthorID],
			Score:    as.Score,
		})
	}

	observability.RankedBlogs.Set(float64(len(board.TopBlogs)))
	span.SetAttributes(
		attribute.Int("ranking.blogs", len(blogs)),
		attribute.Int("ranking.reactions", len(reactions)),
		attribute.Int("ranking.comments", len(comments)),
	)
	return board, nil
}
