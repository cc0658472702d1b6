package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notice struct {
	Message     string
	RecipientID uint
}

// notifierStub records every Notify call.
type notifierStub struct {
	mu      sync.Mutex
	notices []notice
	err     error
}

func (n *notifierStub) Notify(_ context.Context, message string, recipientID uint) (*models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.notices = append(n.notices, notice{Message: message, RecipientID: recipientID})
	return &models.Notification{ID: uint(len(n.notices)), Message: message, UserID: recipientID}, nil
}

func (n *notifierStub) all() []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notice(nil), n.notices...)
}

type fixture struct {
	db        *gorm.DB
	blogs     repository.BlogRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	users     repository.UserRepository
	notifier  *notifierStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &fixture{
		db:        db,
		blogs:     repository.NewBlogRepository(db),
		comments:  repository.NewCommentRepository(db),
		reactions: repository.NewReactionRepository(db),
		users:     repository.NewUserRepository(db, cache.NewStore(nil)),
		notifier:  &notifierStub{},
	}
}

func (f *fixture) commentService(t *testing.T) *CommentService {
	return NewCommentService(f.comments, f.blogs, f.users, f.notifier, slogt.New(t))
}

func (f *fixture) reactionService(t *testing.T) *ReactionService {
	return NewReactionService(f.reactions, f.blogs, f.comments, f.users, f.notifier, slogt.New(t))
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// blogRepoStub overrides GetByID and panics on anything else.
type blogRepoStub struct {
	repository.BlogRepository
	getByIDFn func(context.Context, uint) (*models.Blog, error)
}

func (s *blogRepoStub) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	return s.getByIDFn(ctx, id)
}

// commentRepoStub overrides GetByID and Create.
type commentRepoStub struct {
	repository.CommentRepository
	getByIDFn func(context.Context, uint) (*models.Comment, error)
	createFn  func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
