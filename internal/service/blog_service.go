package service

import (
	"context"
	"strings"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/render"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/validation"
)

type BlogService struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	renderer *render.Renderer
}

type CreateBlogInput struct {
	UserID    uint
	Title     string `validate:"notblank,max=200"`
	Content   string `validate:"notblank,max=50000"`
	ImageName string `validate:"max=255"`
}

// UpdateBlogInput leaves nil fields unchanged.
type UpdateBlogInput struct {
	BlogID    uint
	UserID    uint
	Title     *string `validate:"omitempty,notblank,max=200"`
	Content   *string `validate:"omitempty,notblank,max=50000"`
	ImageName *string `validate:"omitempty,max=255"`
}

// NewBlogService builds a BlogService. renderer may be nil, in which case
// ContentHTML is left empty.
func NewBlogService(blogRepo repository.BlogRepository, userRepo repository.UserRepository, renderer *render.Renderer) *BlogService {
	return &BlogService{blogRepo: blogRepo, userRepo: userRepo, renderer: renderer}
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		ImageName: in.ImageName,
		UserID:    in.UserID,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	return s.GetBlog(ctx, blog.ID)
}

func (s *BlogService) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(blog), nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	blog, err := s.ownedBlog(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		blog.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		blog.Content = *in.Content
	}
	if in.ImageName != nil {
		blog.ImageName = *in.ImageName
	}
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.GetBlog(ctx, blog.ID)
}

// DeleteBlog removes the blog with its comments and every reaction on either.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID uint) error {
	if _, err := s.ownedBlog(ctx, blogID, userID); err != nil {
		return err
	}
	return s.blogRepo.Delete(ctx, blogID)
}

func (s *BlogService) ownedBlog(ctx context.Context, blogID, userID uint) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if !blog.OwnedBy(userID) {
		return nil, models.NewUnauthorizedError("You can only modify your own blogs")
	}
	return blog, nil
}

func (s *BlogService) ListAll(ctx context.Context) ([]*models.Blog, error) {
	return s.decorateAll(s.blogRepo.ListAll(ctx))
}

// ListPage returns page (starting at 0) of pageSize blogs.
func (s *BlogService) ListPage(ctx context.Context, page, pageSize int) ([]*models.Blog, error) {
	if page < 0 {
		return nil, models.NewValidationError("page must not be negative")
	}
	p := repository.Page{Limit: pageSize}.Normalize()
	p.Offset = page * p.Limit
	return s.decorateAll(s.blogRepo.List(ctx, p))
}

func (s *BlogService) ListByUser(ctx context.Context, userID uint) ([]*models.Blog, error) {
	return s.decorateAll(s.blogRepo.ListByUser(ctx, userID))
}

func (s *BlogService) Recent(ctx context.Context, limit int) ([]*models.Blog, error) {
	return s.decorateAll(s.blogRepo.ListRecent(ctx, limit))
}

func (s *BlogService) Search(ctx context.Context, query string) ([]*models.Blog, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.decorateAll(s.blogRepo.SearchByTitle(ctx, query))
}

func (s *BlogService) Count(ctx context.Context) (int64, error) {
	return s.blogRepo.Count(ctx)
}

func (s *BlogService) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	r, err := dateRange(from, to)
	if err != nil {
		return 0, err
	}
	return s.blogRepo.CountBetween(ctx, r)
}

func (s *BlogService) decorate(blog *models.Blog) *models.Blog {
	if s.renderer != nil {
		blog.ContentHTML = s.renderer.Blog(blog.ID, blog.UpdatedAt, blog.Content)
	}
	return blog
}

func (s *BlogService) decorateAll(blogs []*models.Blog, err error) ([]*models.Blog, error) {
	if err != nil {
		return nil, err
	}
	for _, b := range blogs {
		s.decorate(b)
	}
	return blogs, nil
}
