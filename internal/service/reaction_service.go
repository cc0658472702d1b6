package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/validation"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	blogRepo     repository.BlogRepository
	commentRepo  repository.CommentRepository
	userRepo     repository.UserRepository
	notifier     Notifier
	logger       *slog.Logger
}

// CreateReactionInput names exactly one target: BlogID or CommentID.
type CreateReactionInput struct {
	UserID    uint
	Kind      string `validate:"notblank,max=32"`
	BlogID    *uint
	CommentID *uint
}

type UpdateReactionInput struct {
	ReactionID uint
	UserID     uint
	Kind       string `validate:"notblank,max=32"`
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	blogRepo repository.BlogRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *ReactionService {
	if logger == nil {
		logger = observability.Logger()
	}
	return &ReactionService{
		reactionRepo: reactionRepo,
		blogRepo:     blogRepo,
		commentRepo:  commentRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateReaction records a vote and notifies the owner of the target. Both
// targets or neither is an invariant violation and nothing is read or written.
func (s *ReactionService) CreateReaction(ctx context.Context, in CreateReactionInput) (*models.Reaction, error) {
	reaction := &models.Reaction{
		Kind:      strings.TrimSpace(in.Kind),
		UserID:    in.UserID,
		BlogID:    in.BlogID,
		CommentID: in.CommentID,
	}
	if err := reaction.ValidateTarget(); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	reactor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	var (
		recipient *models.User
		message   string
		target    string
	)
	if in.BlogID != nil {
		blog, err := s.blogRepo.GetByID(ctx, *in.BlogID)
		if err != nil {
			return nil, err
		}
		recipient = blog.User
		message = blogReactionMessage(reactor, blog, reaction.Kind)
		target = "blog"
	} else {
		comment, err := s.commentRepo.GetByID(ctx, *in.CommentID)
		if err != nil {
			return nil, err
		}
		var title string
		blog, err := s.blogRepo.GetByID(ctx, comment.BlogID)
		switch {
		case err == nil:
			title = blog.Title
		case !models.IsNotFound(err):
			return nil, err
		}
		recipient = comment.User
		message = commentReactionMessage(reactor, comment, title, reaction.Kind)
		target = "comment"
	}

	if err := s.reactionRepo.Create(ctx, reaction); err != nil {
		return nil, err
	}
	reaction.User = reactor
	observability.ReactionsCreated.WithLabelValues(kindLabel(reaction), target).Inc()

	if recipient != nil && s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, message, recipient.ID); err != nil {
			s.logger.WarnContext(ctx, "reaction notification not stored",
				slog.Uint64("reaction_id", uint64(reaction.ID)), slog.String("error", err.Error()))
		}
	}
	return reaction, nil
}

// UpdateReaction changes the kind of the caller's own reaction.
func (s *ReactionService) UpdateReaction(ctx context.Context, in UpdateReactionInput) (*models.Reaction, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	reaction, err := s.ownedReaction(ctx, in.ReactionID, in.UserID)
	if err != nil {
		return nil, err
	}
	reaction.Kind = strings.TrimSpace(in.Kind)
	if err := s.reactionRepo.Update(ctx, reaction); err != nil {
		return nil, err
	}
	return reaction, nil
}

// DeleteReaction removes the caller's own reaction.
func (s *ReactionService) DeleteReaction(ctx context.Context, reactionID, userID uint) error {
	if _, err := s.ownedReaction(ctx, reactionID, userID); err != nil {
		return err
	}
	return s.reactionRepo.Delete(ctx, reactionID)
}

func (s *ReactionService) ownedReaction(ctx context.Context, reactionID, userID uint) (*models.Reaction, error) {
	reaction, err := s.reactionRepo.GetByID(ctx, reactionID)
	if err != nil {
		return nil, err
	}
	if reaction.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only modify your own reactions")
	}
	return reaction, nil
}

func (s *ReactionService) GetReaction(ctx context.Context, id uint) (*models.Reaction, error) {
	return s.reactionRepo.GetByID(ctx, id)
}

func (s *ReactionService) ListReactions(ctx context.Context) ([]*models.Reaction, error) {
	return s.reactionRepo.ListAll(ctx)
}

// ReactionsOfBlog lists the reactions targeting the blog itself, not its comments.
func (s *ReactionService) ReactionsOfBlog(ctx context.Context, blogID uint) ([]*models.Reaction, error) {
	if _, err := s.blogRepo.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.reactionRepo.ListByBlog(ctx, blogID)
}

func (s *ReactionService) ReactionsOfComment(ctx context.Context, commentID uint) ([]*models.Reaction, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.reactionRepo.ListByComment(ctx, commentID)
}

// Counts splits all reactions into total, upvotes and downvotes.
func (s *ReactionService) Counts(ctx context.Context) (models.ReactionCounts, error) {
	return s.reactionRepo.Counts(ctx)
}

func (s *ReactionService) CountsBetween(ctx context.Context, from, to time.Time) (models.ReactionCounts, error) {
	r, err := dateRange(from, to)
	if err != nil {
		return models.ReactionCounts{}, err
	}
	return s.reactionRepo.CountsBetween(ctx, r)
}
