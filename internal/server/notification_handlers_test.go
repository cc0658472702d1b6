package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/featureflags"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/notifications"
	"github.com/NirojT/AspBlogBacken/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notisFrame struct {
	Type    string                     `json:"type"`
	Payload notifications.NotisPayload `json:"payload"`
}

func TestNotificationPublishedToRecipientChannel(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")
	bob := env.user("bob")
	blog := testutil.CreateBlog(t, env.db, alice.ID, "Go")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := env.rdb.Subscribe(ctx, notifications.UserChannel(alice.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	resp := env.do(http.MethodPost, fmt.Sprintf("/api/blogs/%d/comments", blog.ID), bob.ID, fiberMap{"content": "nice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var frame notisFrame
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &frame))
	assert.Equal(t, notifications.EventNotis, frame.Type)
	assert.Equal(t, "bob has commented on Go comment as nice", frame.Payload.Message)
	assert.Equal(t, alice.ID, frame.Payload.UserID)
	assert.NotZero(t, frame.Payload.ID)

	var stored []models.Notification
	env.decode(env.do(http.MethodGet, "/api/notifications", alice.ID, nil), &stored)
	require.Len(t, stored, 1)
	assert.Equal(t, stored[0].ID, frame.Payload.ID)
}

func TestNotificationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(http.MethodGet, "/api/notifications", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestWebsocketDeliversNotis(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")
	bob := env.user("bob")
	blog := testutil.CreateBlog(t, env.db, alice.ID, "Go")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, env.srv.hub.StartWiring(ctx, env.srv.notifier))
	t.Cleanup(func() { _ = env.srv.hub.Shutdown(context.Background()) })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.Shutdown() })

	var ticket struct {
		Ticket string `json:"ticket"`
	}
	env.decode(env.do(http.MethodPost, "/api/ws/ticket", alice.ID, nil), &ticket)
	require.NotEmpty(t, ticket.Ticket)

	u := url.URL{Scheme: "ws", Host: ln.Addr().String(), Path: "/api/ws", RawQuery: "ticket=" + ticket.Ticket}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return env.srv.hub.IsOnline(alice.ID) }, 2*time.Second, 10*time.Millisecond)

	resp := env.do(http.MethodPost, fmt.Sprintf("/api/blogs/%d/reactions", blog.ID), bob.ID, fiberMap{"kind": "upvote"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var frame notisFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, notifications.EventNotis, frame.Type)
	assert.Equal(t, "bob has upvoted in blog of title Go", frame.Payload.Message)
	assert.Equal(t, alice.ID, frame.Payload.UserID)

	// The ticket was spent on the handshake.
	_, _, err = websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
}

func TestFeatureFlagsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")

	var flags map[string]bool
	env.decode(env.do(http.MethodGet, "/api/features", alice.ID, nil), &flags)
	assert.True(t, flags[featureflags.RealtimeNotifications])
}

func TestRealtimeNotificationsFlag(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags = "realtime_notifications=off"
	env := newTestEnvWith(t, cfg)
	alice := env.user("alice")
	bob := env.user("bob")
	blog := testutil.CreateBlog(t, env.db, alice.ID, "Go")

	var flags map[string]bool
	env.decode(env.do(http.MethodGet, "/api/features", alice.ID, nil), &flags)
	assert.False(t, flags[featureflags.RealtimeNotifications])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := env.rdb.Subscribe(ctx, notifications.UserChannel(alice.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	resp := env.do(http.MethodPost, fmt.Sprintf("/api/blogs/%d/comments", blog.ID), bob.ID, fiberMap{"content": "quiet"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Stored, but never pushed.
	var stored []models.Notification
	env.decode(env.do(http.MethodGet, "/api/notifications", alice.ID, nil), &stored)
	assert.Len(t, stored, 1)
	_, err = sub.ReceiveTimeout(ctx, 300*time.Millisecond)
	assert.Error(t, err)
}
