package server

import (
	"github.com/NirojT/AspBlogBacken/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// GetBlogComments handles GET /api/blogs/:id/comments
// It returns every comment of the blog, roots and replies, with reactions.
// @Summary List the comments of a blog
// @Tags comments
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {array} models.Comment
// @Router /blogs/{id}/comments [get]
func (s *Server) GetBlogComments(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.CommentsOfBlog(c.UserContext(), blogID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetCommentThread handles GET /api/blogs/:id/comments/:commentId
// @Summary Get a comment and its direct replies
// @Tags comments
// @Produce json
// @Param id path int true "Blog ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {array} models.Comment
// @Router /blogs/{id}/comments/{commentId} [get]
func (s *Server) GetCommentThread(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	thread, err := s.commentService.CommentOrReplies(c.UserContext(), commentID, blogID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

// GetAllComments handles GET /api/comments
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CountComments handles GET /api/comments/count with an optional from/to window.
func (s *Server) CountComments(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return nil
	}

	var n int64
	if r.Set {
		n, err = s.commentService.CountBetween(c.UserContext(), r.From, r.To)
	} else {
		n, err = s.commentService.Count(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// CreateComment handles POST /api/blogs/:id/comments
// @Summary Comment on a blog
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog ID"
// @Param request body object{content=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		BlogID:  blogID,
		UserID:  userID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// CreateReply handles POST /api/blogs/:id/comments/:commentId/replies
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog ID"
// @Param commentId path int true "Parent comment ID"
// @Param request body object{content=string} true "Reply"
// @Success 201 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/comments/{commentId}/replies [post]
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	parentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	reply, err := s.commentService.CreateReply(c.UserContext(), service.CreateReplyInput{
		ParentCommentID: parentID,
		BlogID:          blogID,
		UserID:          userID,
		Content:         req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// UpdateComment handles PUT /api/blogs/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		CommentID: commentID,
		BlogID:    blogID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/blogs/:id/comments/:commentId
// Replies to the comment are kept.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		CommentID: commentID,
		BlogID:    blogID,
		UserID:    userID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
