package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard handles GET /api/leaderboard
// @Summary Top 10 blogs and top authors by engagement score
// @Description Blog score is 2 per upvote, -1 per downvote and 1 per comment. Authors are credited from the ranked blogs only.
// @Tags ranking
// @Produce json
// @Success 200 {object} service.Leaderboard
// @Failure 500 {object} models.ErrorResponse
// @Router /leaderboard [get]
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	board, err := s.rankingService.Leaderboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}
