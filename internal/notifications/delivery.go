package notifications

import "context"

// Delivery routes a payload to one user's sockets. With Redis it publishes to
// the user's channel so every instance can deliver; without Redis it writes
// straight into the local hub.
type Delivery struct {
	notifier *Notifier
	hub      *Hub
}

// NewDelivery builds a Delivery. Either argument may be nil.
func NewDelivery(notifier *Notifier, hub *Hub) *Delivery {
	return &Delivery{notifier: notifier, hub: hub}
}

// PublishUser delivers payload to userID only.
func (d *Delivery) PublishUser(ctx context.Context, userID uint, payload string) error {
	if d.notifier.Enabled() {
		return d.notifier.PublishUser(ctx, userID, payload)
	}
	if d.hub != nil {
		d.hub.Broadcast(userID, payload)
	}
	return nil
}
