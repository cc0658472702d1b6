package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/validation"
)

// CommentService resolves comment threads: top-level comments and one flat
// level of replies per root.
type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	logger      *slog.Logger
}

type CreateCommentInput struct {
	BlogID  uint
	UserID  uint
	Content string `validate:"notblank,max=10000"`
}

type CreateReplyInput struct {
	ParentCommentID uint
	BlogID          uint
	UserID          uint
	Content         string `validate:"notblank,max=10000"`
}

type UpdateCommentInput struct {
	CommentID uint
	BlogID    uint
	UserID    uint
	Content   string `validate:"notblank,max=10000"`
}

type DeleteCommentInput struct {
	CommentID uint
	BlogID    uint
	UserID    uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	blogRepo repository.BlogRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *CommentService {
	if logger == nil {
		logger = observability.Logger()
	}
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateComment adds a top-level comment and notifies the blog's owner.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  author.ID,
		BlogID:  blog.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = author
	observability.CommentsCreated.WithLabelValues("comment").Inc()

	if blog.User != nil {
		s.notify(ctx, commentMessage(author, blog, in.Content), blog.User.ID)
	}
	return comment, nil
}

// CreateReply answers a comment. A reply to a reply is attached to its root
// so every thread stays one level deep; the notification still goes to the
// author of the comment being answered.
func (s *CommentService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	parent, err := s.commentRepo.GetByID(ctx, in.ParentCommentID)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID)
	if err != nil {
		return nil, err
	}
	if parent.BlogID != blog.ID {
		return nil, models.NewNotFoundError("Comment", in.ParentCommentID)
	}
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	rootID := parent.RootID()
	reply := &models.Comment{
		Content:         in.Content,
		UserID:          author.ID,
		BlogID:          blog.ID,
		ParentCommentID: &rootID,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	reply.User = author
	observability.CommentsCreated.WithLabelValues("reply").Inc()

	if parent.User != nil {
		s.notify(ctx, replyMessage(author, parent, in.Content), parent.User.ID)
	}
	return reply, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(ctx, in.CommentID, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and its reactions. Replies are kept.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if _, err := s.ownedComment(ctx, in.CommentID, in.BlogID, in.UserID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}

// ownedComment loads a comment and checks it belongs to blogID, that both its
// blog and author still exist, and that userID wrote it.
func (s *CommentService) ownedComment(ctx context.Context, commentID, blogID, userID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.BlogID != blogID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if _, err := s.blogRepo.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	if comment.User == nil {
		return nil, models.NewNotFoundError("User", comment.UserID)
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only modify your own comments")
	}
	return comment, nil
}

// CommentsOfBlog returns every comment and reply of the blog with reactions.
func (s *CommentService) CommentsOfBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByBlog(ctx, blogID)
}

// CommentOrReplies returns the comment and its direct replies, restricted to
// blogID. It is empty when the comment belongs to another blog.
func (s *CommentService) CommentOrReplies(ctx context.Context, commentID, blogID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListThread(ctx, commentID, blogID)
}

func (s *CommentService) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return s.commentRepo.ListAll(ctx)
}

func (s *CommentService) Count(ctx context.Context) (int64, error) {
	return s.commentRepo.Count(ctx)
}

func (s *CommentService) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r, err := dateRange(from, to)
	if err != nil {
		return 0, err
	}
	return s.commentRepo.CountBetween(ctx, r)
}

func (s *CommentService) notify(ctx context.Context, message string, recipientID uint) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, message, recipientID); err != nil {
		s.logger.WarnContext(ctx, "comment notification not stored",
			slog.Uint64("recipient_id", uint64(recipientID)), slog.String("error", err.Error()))
	}
}

func dateRange(from, to time.Time) (repository.DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return repository.DateRange{}, models.NewValidationError("from and to are required")
	}
	if to.Before(from) {
		return repository.DateRange{}, models.NewValidationError("to must not be before from")
	}
	return repository.DateRange{From: from, To: to}, nil
}
