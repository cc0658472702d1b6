package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired_WSTicket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		redis:  rdb,
	}

	app := fiber.New()
	handler := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	}
	app.Get("/api/ws", s.AuthRequired(), handler)
	app.Get("/api/other", s.AuthRequired(), handler)

	ctx := context.Background()

	t.Run("ticket is single use", func(t *testing.T) {
		ticket := "ws-test-ticket-1"
		require.NoError(t, rdb.Set(ctx, cache.WSTicketKey(ticket), "123", time.Minute).Err())

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws?ticket="+ticket, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, float64(123), body["userID"])
		_ = resp.Body.Close()

		exists, err := rdb.Exists(ctx, cache.WSTicketKey(ticket)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists, "ticket should be consumed")

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/ws?ticket="+ticket, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("non-ws path consumes ticket too", func(t *testing.T) {
		ticket := "other-test-ticket-1"
		require.NoError(t, rdb.Set(ctx, cache.WSTicketKey(ticket), "456", time.Minute).Err())

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/other?ticket="+ticket, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		exists, err := rdb.Exists(ctx, cache.WSTicketKey(ticket)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)
	})

	t.Run("expired ticket", func(t *testing.T) {
		ticket := "short-lived"
		require.NoError(t, rdb.Set(ctx, cache.WSTicketKey(ticket), "123", time.Second).Err())
		mr.FastForward(2 * time.Second)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws?ticket="+ticket, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("ws path refuses token query param", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws?token=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("unparseable user id", func(t *testing.T) {
		ticket := "bad-user"
		require.NoError(t, rdb.Set(ctx, cache.WSTicketKey(ticket), "not-a-number", time.Minute).Err())

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ws?ticket="+ticket, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestIssueWSTicket(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user("alice")

	resp := env.do(http.MethodPost, "/api/ws/ticket", alice.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}
	env.decode(resp, &body)
	require.NotEmpty(t, body.Ticket)
	assert.Equal(t, 60, body.ExpiresIn)

	stored, err := env.mr.Get(cache.WSTicketKey(body.Ticket))
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(alice.ID), 10), stored)
	assert.Equal(t, cache.WSTicketTTL, env.mr.TTL(cache.WSTicketKey(body.Ticket)))

	// Without a bearer token no ticket is issued.
	resp = env.do(http.MethodPost, "/api/ws/ticket", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
