package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenConfig = TokenConfig{
	Secret:   "test-secret-key-12345678901234567890123456789012",
	Issuer:   "blog-api",
	Audience: "blog-client",
}

func TestParseUserID(t *testing.T) {
	valid, err := IssueToken(testTokenConfig, 123, time.Hour)
	require.NoError(t, err)

	expired, err := IssueToken(testTokenConfig, 123, -time.Minute)
	require.NoError(t, err)

	otherIssuer := testTokenConfig
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, err := IssueToken(otherIssuer, 123, time.Hour)
	require.NoError(t, err)

	otherSecret := testTokenConfig
	otherSecret.Secret = "another-secret-key-1234567890123456789012345"
	wrongSecret, err := IssueToken(otherSecret, 123, time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    testTokenConfig.Issuer,
		Audience:  jwt.ClaimStrings{testTokenConfig.Audience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testTokenConfig.Secret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    uint
		wantErr bool
	}{
		{"valid", valid, 123, false},
		{"expired", expired, 0, true},
		{"wrong issuer", wrongIssuer, 0, true},
		{"wrong secret", wrongSecret, 0, true},
		{"missing subject", noSubject, 0, true},
		{"garbage", "not-a-token", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(testTokenConfig, tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(BearerToken(c))
	})

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		buf := make([]byte, 64)
		n, _ := resp.Body.Read(buf)
		assert.Equal(t, tt.want, string(buf[:n]), "header %q", tt.header)
	}
}
