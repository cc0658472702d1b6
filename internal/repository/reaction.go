package repository

import (
	"context"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for reactions.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	GetByID(ctx context.Context, id uint) (*models.Reaction, error)
	Update(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]*models.Reaction, error)
	// ListBlogTargeted returns every reaction whose target is a blog.
	ListBlogTargeted(ctx context.Context) ([]*models.Reaction, error)
	ListByBlog(ctx context.Context, blogID uint) ([]*models.Reaction, error)
	ListByComment(ctx context.Context, commentID uint) ([]*models.Reaction, error)
	Counts(ctx context.Context) (models.ReactionCounts, error)
	CountsBetween(ctx context.Context, r DateRange) (models.ReactionCounts, error)
}

type reactionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db, log: observability.NewRepoLogger("reactions")}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := reaction.ValidateTarget(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reaction).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"reaction_id": reaction.ID, "kind": reaction.Kind})
	return nil
}

func (r *reactionRepository) GetByID(ctx context.Context, id uint) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&reaction, id).Error; err != nil {
		return nil, lookupError(err, "Reaction", id)
	}
	return &reaction, nil
}

func (r *reactionRepository) Update(ctx context.Context, reaction *models.Reaction) error {
	if err := reaction.ValidateTarget(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(reaction).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"reaction_id": reaction.ID, "kind": reaction.Kind})
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Reaction{}, id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reaction", id)
	}
	r.log.LogDelete(ctx, map[string]any{"reaction_id": id})
	return nil
}

func (r *reactionRepository) ListAll(ctx context.Context) ([]*models.Reaction, error) {
	return r.find(readDB(r.db).WithContext(ctx).Order("id ASC"))
}

func (r *reactionRepository) ListBlogTargeted(ctx context.Context) ([]*models.Reaction, error) {
	defer observability.TrackQuery("list_blog_targeted", "reactions")()
	return r.find(readDB(r.db).WithContext(ctx).Where("blog_id IS NOT NULL").Order("id ASC"))
}

func (r *reactionRepository) ListByBlog(ctx context.Context, blogID uint) ([]*models.Reaction, error) {
	return r.find(readDB(r.db).WithContext(ctx).Where("blog_id = ?", blogID).Order("id ASC"))
}

func (r *reactionRepository) ListByComment(ctx context.Context, commentID uint) ([]*models.Reaction, error) {
	return r.find(readDB(r.db).WithContext(ctx).Where("comment_id = ?", commentID).Order("id ASC"))
}

func (r *reactionRepository) find(q *gorm.DB) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	if err := q.Find(&reactions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

const reactionCountsSelect = "COUNT(*) AS reacts, " +
	"COALESCE(SUM(CASE WHEN LOWER(kind) = ? THEN 1 ELSE 0 END), 0) AS upvotes, " +
	"COALESCE(SUM(CASE WHEN LOWER(kind) = ? THEN 1 ELSE 0 END), 0) AS downvotes"

func (r *reactionRepository) Counts(ctx context.Context) (models.ReactionCounts, error) {
	return r.counts(readDB(r.db).WithContext(ctx).Model(&models.Reaction{}))
}

func (r *reactionRepository) CountsBetween(ctx context.Context, dr DateRange) (models.ReactionCounts, error) {
	return r.counts(dr.apply(readDB(r.db).WithContext(ctx).Model(&models.Reaction{})))
}

func (r *reactionRepository) counts(q *gorm.DB) (models.ReactionCounts, error) {
	var counts models.ReactionCounts
	err := q.Select(reactionCountsSelect, models.ReactionUpvote, models.ReactionDownvote).Scan(&counts).Error
	if err != nil {
		return models.ReactionCounts{}, models.NewInternalError(err)
	}
	return counts, nil
}
