package server

import (
	"github.com/NirojT/AspBlogBacken/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reactionRequest struct {
	Kind      string `json:"kind"`
	BlogID    *uint  `json:"blog_id"`
	CommentID *uint  `json:"comment_id"`
}

// CreateReaction handles POST /api/reactions
// The body names exactly one of blog_id and comment_id; both or neither is
// answered with 422.
// @Summary React to a blog or a comment
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{kind=string,blog_id=int,comment_id=int} true "Reaction"
// @Success 201 {object} models.Reaction
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /reactions [post]
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}
	return s.createReaction(c, userID, req)
}

// ReactToBlog handles POST /api/blogs/:id/reactions
func (s *Server) ReactToBlog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}
	return s.createReaction(c, userID, reactionRequest{Kind: req.Kind, BlogID: &blogID})
}

// ReactToComment handles POST /api/blogs/:id/comments/:commentId/reactions
func (s *Server) ReactToComment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}
	return s.createReaction(c, userID, reactionRequest{Kind: req.Kind, CommentID: &commentID})
}

func (s *Server) createReaction(c *fiber.Ctx, userID uint, req reactionRequest) error {
	reaction, err := s.reactionService.CreateReaction(c.UserContext(), service.CreateReactionInput{
		UserID:    userID,
		Kind:      req.Kind,
		BlogID:    req.BlogID,
		CommentID: req.CommentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// UpdateReaction handles PUT /api/reactions/:id
func (s *Server) UpdateReaction(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	reactionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	reaction, err := s.reactionService.UpdateReaction(c.UserContext(), service.UpdateReactionInput{
		ReactionID: reactionID,
		UserID:     userID,
		Kind:       req.Kind,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reaction)
}

// DeleteReaction handles DELETE /api/reactions/:id
func (s *Server) DeleteReaction(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	reactionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reactionService.DeleteReaction(c.UserContext(), reactionID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reaction deleted successfully"})
}

// GetReaction handles GET /api/reactions/:id
func (s *Server) GetReaction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reaction, err := s.reactionService.GetReaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reaction)
}

// GetReactions handles GET /api/reactions
func (s *Server) GetReactions(c *fiber.Ctx) error {
	reactions, err := s.reactionService.ListReactions(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reactions)
}

// GetBlogReactions handles GET /api/blogs/:id/reactions
func (s *Server) GetBlogReactions(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reactions, err := s.reactionService.ReactionsOfBlog(c.UserContext(), blogID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reactions)
}

// GetCommentReactions handles GET /api/comments/:commentId/reactions
func (s *Server) GetCommentReactions(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	reactions, err := s.reactionService.ReactionsOfComment(c.UserContext(), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reactions)
}

// GetReactionCounts handles GET /api/reactions/counts with an optional from/to window.
// @Summary Count reactions by kind
// @Tags reactions
// @Produce json
// @Param from query string false "Window start (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} models.ReactionCounts
// @Failure 400 {object} models.ErrorResponse
// @Router /reactions/counts [get]
func (s *Server) GetReactionCounts(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return nil
	}

	ctx := c.UserContext()
	if r.Set {
		counts, err := s.reactionService.CountsBetween(ctx, r.From, r.To)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(counts)
	}

	counts, err := s.reactionService.Counts(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}
