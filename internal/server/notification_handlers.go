package server

import (
	"log/slog"
	"strconv"

	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/middleware"
	"github.com/NirojT/AspBlogBacken/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// GetMyNotifications handles GET /api/notifications
// @Summary Notifications of the current user, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (s *Server) GetMyNotifications(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}

	list, err := s.notificationService.ListNotifications(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetFeatureFlags handles GET /api/features
// @Summary Feature flags evaluated for the current user
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Router /features [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	return c.JSON(s.flags.Snapshot(userID))
}

// IssueWSTicket handles POST /api/ws/ticket
// Browsers cannot set headers on a websocket handshake, so the client trades
// its bearer token for a single-use ticket and passes it as ?ticket=.
// @Summary Issue a websocket ticket
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{ticket=string,expires_in=int}
// @Failure 503 {object} models.ErrorResponse
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return nil
	}
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			&models.AppError{Code: "WS_TICKETS_UNAVAILABLE", Message: "WebSocket tickets are unavailable"})
	}

	ticket := uuid.NewString()
	key := cache.WSTicketKey(ticket)
	if err := s.redis.Set(c.UserContext(), key, strconv.FormatUint(uint64(userID), 10), cache.WSTicketTTL).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("ws_ticket").Inc()
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(cache.WSTicketTTL.Seconds()),
	})
}

// WebsocketHandler streams the caller's notifications. Each frame is a
// {"type":"notis","payload":{...}} event.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		uid, ok := conn.Locals("userID").(uint)
		if !ok || uid == 0 {
			if cerr := conn.Close(); cerr != nil {
				middleware.Logger.Warn("websocket close error", slog.String("error", cerr.Error()))
			}
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration refused",
				slog.Uint64("user_id", uint64(uid)), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		defer s.hub.UnregisterClient(client)

		go client.WritePump()
		client.ReadPump()
	})
}
