package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "production",
		Port:                     "8080",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBDriver:                 "postgres",
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		DBConnMaxLifetimeMinutes: 5,
		TracingSampleRatio:       1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"default secret in production", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"short secret in production", func(c *Config) { c.JWTSecret = "short" }, true},
		{"short secret in development", func(c *Config) { c.Env = "development"; c.JWTSecret = "short" }, false},
		{"weak db password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled in production", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"ssl disabled in test", func(c *Config) { c.Env = "test"; c.DBSSLMode = "disable" }, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite in production", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "blog.db" }, true},
		{"sqlite without path", func(c *Config) { c.Env = "development"; c.DBDriver = "sqlite"; c.DBPath = "" }, true},
		{"sqlite in development", func(c *Config) { c.Env = "development"; c.DBDriver = "sqlite"; c.DBPath = "blog.db" }, false},
		{"sample ratio out of range", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"negative lifetime", func(c *Config) { c.DBConnMaxLifetimeMinutes = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_PATH", "engagement.db")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("WRITE_RATE_LIMIT", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "engagement.db", cfg.DBPath)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 7, cfg.WriteRateLimit)
	assert.Equal(t, "blog-api", cfg.JWTIssuer)
	assert.False(t, cfg.IsProduction())
}
