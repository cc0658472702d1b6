// Package bootstrap wires the process-wide runtime shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/observability"
	"github.com/NirojT/AspBlogBacken/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData seeds an empty development database with seed.DefaultOptions.
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data. The
// Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if opts.SeedDemoData {
		if err := seedIfEmpty(context.Background(), cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, rdb, nil
}

func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") {
		observability.Logger().Warn("demo seeding skipped outside development", slog.String("env", cfg.Env))
		return nil
	}

	var blogs int64
	if err := db.WithContext(ctx).Model(&models.Blog{}).Count(&blogs).Error; err != nil {
		return err
	}
	if blogs > 0 {
		return nil
	}

	_, err := seed.Seed(ctx, db, seed.DefaultOptions())
	return err
}
