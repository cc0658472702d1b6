package notifications

import (
	"encoding/json"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/models"
)

// EventNotis is the event name clients listen for.
const EventNotis = "notis"

// Event is the envelope written to sockets.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// NotisPayload is the body of a "notis" event.
type NotisPayload struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EncodeNotis renders n as a "notis" event.
func EncodeNotis(n *models.Notification) (string, error) {
	raw, err := json.Marshal(Event{
		Type: EventNotis,
		Payload: NotisPayload{
			ID:        n.ID,
			Message:   n.Message,
			UserID:    n.UserID,
			CreatedAt: n.CreatedAt.UTC(),
		},
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
