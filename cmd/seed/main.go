// Command main runs the database seeder.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numBlogs := flag.Int("blogs", defaults.NumBlogs, "Number of blogs to create")
	maxComments := flag.Int("comments", defaults.MaxCommentsPerBlog, "Max top-level comments per blog")
	maxReplies := flag.Int("replies", defaults.MaxRepliesPerComment, "Max replies per comment")
	maxReactions := flag.Int("reactions", defaults.MaxReactionsPerTarget, "Max reactions per blog")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread blog creation over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build the data set without writing it")
	randSeed := flag.Int64("seed", 0, "Random seed for a reproducible run (0 = time based)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := seed.Options{
		NumUsers:              *numUsers,
		NumBlogs:              *numBlogs,
		MaxCommentsPerBlog:    *maxComments,
		MaxRepliesPerComment:  *maxReplies,
		MaxReactionsPerTarget: *maxReactions,
		MaxDays:               *maxDays,
		BatchSize:             defaults.BatchSize,
		ShouldClean:           *shouldClean,
		DryRun:                *dryRun,
		RandSeed:              *randSeed,
	}

	db := database.DB
	if !opts.DryRun {
		db, err = database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
	}

	summary, err := seed.Seed(context.Background(), db, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)
}
