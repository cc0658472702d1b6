package server

import (
	"github.com/NirojT/AspBlogBacken/internal/service"

	"github.com/gofiber/fiber/v2"
)

type blogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageName string `json:"image_name"`
}

type blogPatchRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	ImageName *string `json:"image_name"`
}

// GetBlogs handles GET /api/blogs
// With ?page= it returns that page (starting at 0) of ?page_size= blogs;
// without it, every blog.
// @Summary List blogs
// @Tags blogs
// @Produce json
// @Param page query int false "Page index, starting at 0"
// @Param page_size query int false "Page size"
// @Success 200 {array} models.Blog
// @Failure 400 {object} models.ErrorResponse
// @Router /blogs [get]
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.Query("page") == "" {
		blogs, err := s.blogService.ListAll(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(blogs)
	}

	blogs, err := s.blogService.ListPage(ctx, c.QueryInt("page", 0), c.QueryInt("page_size", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blogs)
}

// GetRecentBlogs handles GET /api/blogs/recent
func (s *Server) GetRecentBlogs(c *fiber.Ctx) error {
	page := parsePagination(c, 5)
	blogs, err := s.blogService.Recent(c.UserContext(), page.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blogs)
}

// SearchBlogs handles GET /api/blogs/search?q=...
func (s *Server) SearchBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blogs)
}

// CountBlogs handles GET /api/blogs/count with an optional from/to window.
func (s *Server) CountBlogs(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return nil
	}

	var n int64
	if r.Set {
		n, err = s.blogService.CountBetween(c.UserContext(), r.From, r.To)
	} else {
		n, err = s.blogService.Count(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// GetBlog handles GET /api/blogs/:id
// @Summary Get a blog with its author, reactions and rendered HTML
// @Tags blogs
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} models.Blog
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id} [get]
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	blog, err := s.blogService.GetBlog(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

// GetUserBlogs handles GET /api/users/:id/blogs
func (s *Server) GetUserBlogs(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	blogs, err := s.blogService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blogs)
}

// CreateBlog handles POST /api/blogs
// @Summary Create a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Blog
// @Failure 400 {object} models.ErrorResponse
// @Router /blogs [post]
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	blog, err := s.blogService.CreateBlog(c.UserContext(), service.CreateBlogInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		ImageName: req.ImageName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:id
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req blogPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	blog, err := s.blogService.UpdateBlog(c.UserContext(), service.UpdateBlogInput{
		BlogID:    blogID,
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		ImageName: req.ImageName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:id
// The blog's comments and every reaction on the blog or its comments go with it.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.DeleteBlog(c.UserContext(), blogID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}
