package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// #nosec G404: acceptable for seeding
	rng     *rand.Rand
	started time.Time
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB. db may be
// nil in DryRun mode.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{
		db:      db,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404
		started: time.Now(),
		nextID:  1000,
	}
}

// BuildUser returns an unsaved user. n keeps usernames unique within a run.
func (f *Factory) BuildUser(n int, overrides ...func(*models.User)) *models.User {
	username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), n)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildBlog returns an unsaved blog with markdown content and a created_at
// spread over the last MaxDays days.
func (f *Factory) BuildBlog(author *models.User, overrides ...func(*models.Blog)) *models.Blog {
	blog := &models.Blog{
		Title:     strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Content:   f.markdownBody(),
		ImageName: fmt.Sprintf("%s.webp", gofakeit.UUID()),
		UserID:    author.ID,
		CreatedAt: f.pastTime(),
	}
	blog.UpdatedAt = blog.CreatedAt
	for _, override := range overrides {
		override(blog)
	}
	return blog
}

// BuildComment returns an unsaved comment on blog, or a reply when parent is
// set. Replies always hang off the root of parent's thread.
func (f *Factory) BuildComment(blog *models.Blog, author *models.User, parent *models.Comment, overrides ...func(*models.Comment)) *models.Comment {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  author.ID,
		BlogID:  blog.ID,
	}
	if parent != nil {
		rootID := parent.RootID()
		comment.ParentCommentID = &rootID
		comment.BlogID = parent.BlogID
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment
}

// BuildBlogReaction returns an unsaved reaction targeting blog.
func (f *Factory) BuildBlogReaction(blog *models.Blog, reactor *models.User) *models.Reaction {
	id := blog.ID
	return &models.Reaction{Kind: f.pickKind(), UserID: reactor.ID, BlogID: &id}
}

// BuildCommentReaction returns an unsaved reaction targeting comment.
func (f *Factory) BuildCommentReaction(comment *models.Comment, reactor *models.User) *models.Reaction {
	id := comment.ID
	return &models.Reaction{Kind: f.pickKind(), UserID: reactor.ID, CommentID: &id}
}

// CreateUsers persists users in batches.
func (f *Factory) CreateUsers(users []*models.User) error {
	if f.opts.DryRun {
		for _, u := range users {
			u.ID = f.syntheticID()
		}
		return f.dryRun("users", len(users))
	}
	return f.insert(&users)
}

// CreateBlogs persists blogs in batches.
func (f *Factory) CreateBlogs(blogs []*models.Blog) error {
	if f.opts.DryRun {
		for _, b := range blogs {
			b.ID = f.syntheticID()
		}
		return f.dryRun("blogs", len(blogs))
	}
	return f.insert(&blogs)
}

// CreateComments persists comments in batches.
func (f *Factory) CreateComments(comments []*models.Comment) error {
	if f.opts.DryRun {
		for _, c := range comments {
			c.ID = f.syntheticID()
		}
		return f.dryRun("comments", len(comments))
	}
	return f.insert(&comments)
}

// CreateReactions persists reactions in batches. Every reaction must have
// exactly one target.
func (f *Factory) CreateReactions(reactions []*models.Reaction) error {
	for _, r := range reactions {
		if err := r.ValidateTarget(); err != nil {
			return err
		}
	}
	if f.opts.DryRun {
		for _, r := range reactions {
			r.ID = f.syntheticID()
		}
		return f.dryRun("reactions", len(reactions))
	}
	return f.insert(&reactions)
}

func (f *Factory) insert(rows any) error {
	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.Omit(clause.Associations).CreateInBatches(rows, batch).Error
}

func (f *Factory) dryRun(what string, n int) error {
	observability.Logger().Info("[dry-run] skipped insert", slog.String("table", what), slog.Int("rows", n))
	return nil
}

func (f *Factory) syntheticID() uint {
	f.nextID++
	return f.nextID
}

func (f *Factory) pickUser(users []*models.User) *models.User {
	return users[f.rng.Intn(len(users))]
}

// upTo returns a count in [0, n].
func (f *Factory) upTo(n int) int {
	if n <= 0 {
		return 0
	}
	return f.rng.Intn(n + 1)
}

// pickKind skews towards upvotes and leaves room for free-form kinds.
func (f *Factory) pickKind() string {
	switch p := f.rng.Intn(10); {
	case p < 6:
		return models.ReactionUpvote
	case p < 9:
		return models.ReactionDownvote
	default:
		return "heart"
	}
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().UTC().Add(-back)
}

func (f *Factory) markdownBody() string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(strings.TrimSuffix(gofakeit.Sentence(4), "."))
	sb.WriteString("\n\n")
	sb.WriteString(gofakeit.Paragraph(2, 3, 8, "\n\n"))
	sb.WriteString("\n\n")
	for i := 0; i < 3; i++ {
		sb.WriteString("- ")
		sb.WriteString(gofakeit.Sentence(5))
		sb.WriteString("\n")
	}
	return sb.String()
}
