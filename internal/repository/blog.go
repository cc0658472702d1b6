package repository

import (
	"context"
	"strings"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogRepository defines persistence operations for blogs.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	// Delete removes the blog, its comments and every reaction targeting
	// the blog or one of its comments.
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]*models.Blog, error)
	List(ctx context.Context, page Page) ([]*models.Blog, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Blog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Blog, error)
	SearchByTitle(ctx context.Context, query string) ([]*models.Blog, error)
	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, r DateRange) (int64, error)
}

type blogRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBlogRepository creates a new BlogRepository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db, log: observability.NewRepoLogger("blogs")}
}

func (r *blogRepository) withRelations(ctx context.Context) *gorm.DB {
	return readDB(r.db).WithContext(ctx).Preload("User").Preload("Reactions")
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(blog).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"blog_id": blog.ID, "user_id": blog.UserID})
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.withRelations(ctx).First(&blog, id).Error; err != nil {
		return nil, lookupError(err, "Blog", id)
	}
	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(blog).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"blog_id": blog.ID})
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	var removedComments, removedReactions int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("blog_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		res := tx.Where("blog_id = ?", id).Delete(&models.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		removedReactions = res.RowsAffected

		if len(commentIDs) > 0 {
			res = tx.Where("comment_id IN ?", commentIDs).Delete(&models.Reaction{})
			if res.Error != nil {
				return res.Error
			}
			removedReactions += res.RowsAffected

			res = tx.Where("blog_id = ?", id).Delete(&models.Comment{})
			if res.Error != nil {
				return res.Error
			}
			removedComments = res.RowsAffected
		}

		res = tx.Delete(&models.Blog{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Blog", id)
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

	r.log.LogDelete(ctx, map[string]any{
		"blog_id":           id,
		"removed_comments":  removedComments,
		"removed_reactions": removedReactions,
	})
	return nil
}

func (r *blogRepository) ListAll(ctx context.Context) ([]*models.Blog, error) {
	defer observability.TrackQuery("list_all", "blogs")()
	return r.find(r.withRelations(ctx).Order("id ASC"))
}

func (r *blogRepository) List(ctx context.Context, page Page) ([]*models.Blog, error) {
	page = page.Normalize()
	return r.find(r.withRelations(ctx).Order("id ASC").Limit(page.Limit).Offset(page.Offset))
}

func (r *blogRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Blog, error) {
	return r.find(r.withRelations(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC"))
}

func (r *blogRepository) ListRecent(ctx context.Context, limit int) ([]*models.Blog, error) {
	page := Page{Limit: limit}.Normalize()
	return r.find(r.withRelations(ctx).Order("created_at DESC, id DESC").Limit(page.Limit))
}

func (r *blogRepository) SearchByTitle(ctx context.Context, query string) ([]*models.Blog, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	return r.find(r.withRelations(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern).
		Order("created_at DESC, id DESC"))
}

func (r *blogRepository) find(q *gorm.DB) ([]*models.Blog, error) {
	var blogs []*models.Blog
	if err := q.Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Blog{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *blogRepository) CountBetween(ctx context.Context, dr DateRange) (int64, error) {
	var n int64
	if err := dr.apply(readDB(r.db).WithContext(ctx).Model(&models.Blog{})).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
