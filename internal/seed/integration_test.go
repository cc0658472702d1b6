//go:build integration

package seed

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	return &config.Config{
		DBDriver:     "postgres",
		DBHost:       u.Hostname(),
		DBPort:       port,
		DBUser:       u.User.Username(),
		DBPassword:   password,
		DBName:       strings.TrimPrefix(u.Path, "/"),
		DBSSLMode:    "disable",
		Env:          "test",
		DBSchemaMode: "sql",
	}, nil
}

func TestIntegration_SeedAndRankOnPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	require.NoError(t, err)

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	require.NoError(t, err)

	ctx := context.Background()
	opts := DefaultOptions()
	opts.ShouldClean = true
	summary, err := Seed(ctx, db, opts)
	require.NoError(t, err)

	var blogs int64
	require.NoError(t, db.Model(&models.Blog{}).Count(&blogs).Error)
	assert.Equal(t, int64(summary.Blogs), blogs)

	ranking := service.NewRankingService(
		repository.NewBlogRepository(db),
		repository.NewReactionRepository(db),
		repository.NewCommentRepository(db),
	)
	board, err := ranking.Leaderboard(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(board.TopBlogs), 10)
	for i := 1; i < len(board.TopBlogs); i++ {
		assert.GreaterOrEqual(t, board.TopBlogs[i-1].Score, board.TopBlogs[i].Score)
	}
}
