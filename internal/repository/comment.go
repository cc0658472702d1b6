package repository

import (
	"context"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines persistence operations for comments and replies.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	// Delete removes the reactions targeting the comment, then the comment.
	// Replies are left in place.
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]*models.Comment, error)
	ListByBlog(ctx context.Context, blogID uint) ([]*models.Comment, error)
	// ListThread returns the comment and its direct replies within blogID.
	ListThread(ctx context.Context, commentID, blogID uint) ([]*models.Comment, error)
	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, r DateRange) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "blog_id": comment.BlogID, "reply": comment.IsReply()})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, lookupError(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"comment_id": comment.ID})
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
		}
		return nil
	})
	if err != nil {
		if models.IsNotFound(err) {
			return err
		}
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]any{"comment_id": id})
	return nil
}

func (r *commentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	defer observability.TrackQuery("list_all", "comments")()
	return r.find(readDB(r.db).WithContext(ctx).Order("id ASC"))
}

func (r *commentRepository) ListByBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	return r.find(readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Reactions").
		Where("blog_id = ?", blogID).
		Order("created_at ASC, id ASC"))
}

func (r *commentRepository) ListThread(ctx context.Context, commentID, blogID uint) ([]*models.Comment, error) {
	return r.find(readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Reactions").
		Where("blog_id = ? AND (id = ? OR parent_comment_id = ?)", blogID, commentID, commentID).
		Order("id ASC"))
}

func (r *commentRepository) find(q *gorm.DB) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := q.Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Comment{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *commentRepository) CountBetween(ctx context.Context, dr DateRange) (int64, error) {
	var n int64
	if err := dr.apply(readDB(r.db).WithContext(ctx).Model(&models.Comment{})).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
