// Package seed fills a database with demo users, blogs, comment threads and
// reactions for development and load testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers              int
	NumBlogs              int
	MaxCommentsPerBlog    int
	MaxRepliesPerComment  int
	MaxReactionsPerTarget int
	// MaxDays spreads blog creation times over the last N days.
	MaxDays     int
	BatchSize   int
	ShouldClean bool
	// DryRun builds everything with synthetic ids and writes nothing.
	DryRun bool
	// RandSeed makes a run reproducible. Zero picks a time-based seed.
	RandSeed int64
}

// DefaultOptions is a small graph suitable for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:              20,
		NumBlogs:              40,
		MaxCommentsPerBlog:    6,
		MaxRepliesPerComment:  3,
		MaxReactionsPerTarget: 8,
		MaxDays:               90,
		BatchSize:             100,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users     int `json:"users"`
	Blogs     int `json:"blogs"`
	Comments  int `json:"comments"`
	Replies   int `json:"replies"`
	Reactions int `json:"reactions"`
}

// Seed populates the database with demo data.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	logger := observability.Logger()
	logger.InfoContext(ctx, "seeding database",
		slog.Int("users", opts.NumUsers), slog.Int("blogs", opts.NumBlogs), slog.Bool("dry_run", opts.DryRun))

	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed: NumUsers must be positive")
	}
	if db != nil {
		db = db.WithContext(ctx)
	}

	if opts.ShouldClean && !opts.DryRun {
		if err := Clean(db); err != nil {
			return nil, fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	summary := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		users = append(users, f.BuildUser(i))
	}
	if err := f.CreateUsers(users); err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	summary.Users = len(users)

	blogs := make([]*models.Blog, 0, opts.NumBlogs)
	for i := 0; i < opts.NumBlogs; i++ {
		blogs = append(blogs, f.BuildBlog(f.pickUser(users)))
	}
	if err := f.CreateBlogs(blogs); err != nil {
		return nil, fmt.Errorf("failed to create blogs: %w", err)
	}
	summary.Blogs = len(blogs)

	// Roots first so replies can point at their ids.
	var roots []*models.Comment
	for _, blog := range blogs {
		for n := f.upTo(opts.MaxCommentsPerBlog); n > 0; n-- {
			roots = append(roots, f.BuildComment(blog, f.pickUser(users), nil))
		}
	}
	if err := f.CreateComments(roots); err != nil {
		return nil, fmt.Errorf("failed to create comments: %w", err)
	}
	summary.Comments = len(roots)

	var replies []*models.Comment
	for _, root := range roots {
		for n := f.upTo(opts.MaxRepliesPerComment); n > 0; n-- {
			replies = append(replies, f.BuildComment(&models.Blog{ID: root.BlogID}, f.pickUser(users), root))
		}
	}
	if err := f.CreateComments(replies); err != nil {
		return nil, fmt.Errorf("failed to create replies: %w", err)
	}
	summary.Replies = len(replies)

	var reactions []*models.Reaction
	for _, blog := range blogs {
		for n := f.upTo(opts.MaxReactionsPerTarget); n > 0; n-- {
			reactions = append(reactions, f.BuildBlogReaction(blog, f.pickUser(users)))
		}
	}
	for _, c := range append(roots, replies...) {
		for n := f.upTo(opts.MaxReactionsPerTarget / 2); n > 0; n-- {
			reactions = append(reactions, f.BuildCommentReaction(c, f.pickUser(users)))
		}
	}
	if err := f.CreateReactions(reactions); err != nil {
		return nil, fmt.Errorf("failed to create reactions: %w", err)
	}
	summary.Reactions = len(reactions)

	logger.InfoContext(ctx, "seeding completed",
		slog.Int("users", summary.Users),
		slog.Int("blogs", summary.Blogs),
		slog.Int("comments", summary.Comments),
		slog.Int("replies", summary.Replies),
		slog.Int("reactions", summary.Reactions),
		slog.Duration("elapsed", time.Since(f.started)))
	return summary, nil
}

// Clean deletes every row the seeder can create, children first.
func Clean(db *gorm.DB) error {
	observability.Logger().Info("clearing existing data")
	tx := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&models.Notification{},
		&models.Reaction{},
		&models.Comment{},
		&models.Blog{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
