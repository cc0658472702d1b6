package service

import (
	"context"
	"log/slog"

	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/notifications"
	"github.com/NirojT/AspBlogBacken/internal/observability"
	"github.com/NirojT/AspBlogBacken/internal/repository"
)

// Publisher delivers an encoded event to one user's realtime subscription.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// Notifier persists and delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, message string, recipientID uint) (*models.Notification, error)
}

// NotificationService stores notifications and pushes a "notis" event to the
// recipient. Realtime delivery is best effort.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	logger    *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = observability.Logger()
	}
	return &NotificationService{repo: repo, publisher: publisher, logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, message string, recipientID uint) (*models.Notification, error) {
	if recipientID == 0 {
		return nil, models.NewValidationError("Recipient is required")
	}

	n := &models.Notification{Message: message, UserID: recipientID}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	outcome := s.publish(ctx, n)
	observability.NotificationsDispatched.WithLabelValues(outcome).Inc()
	return n, nil
}

func (s *NotificationService) publish(ctx context.Context, n *models.Notification) string {
	if s.publisher == nil {
		return "stored"
	}
	payload, err := notifications.EncodeNotis(n)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode notification",
			slog.Uint64("notification_id", uint64(n.ID)), slog.String("error", err.Error()))
		return "encode_failed"
	}
	if err := s.publisher.PublishUser(ctx, n.UserID, payload); err != nil {
		s.logger.WarnContext(ctx, "failed to publish notification",
			slog.Uint64("notification_id", uint64(n.ID)),
			slog.Uint64("recipient_id", uint64(n.UserID)),
			slog.String("error", err.Error()))
		return "publish_failed"
	}
	return "published"
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID)
}
