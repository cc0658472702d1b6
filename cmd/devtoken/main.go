// Package main issues access tokens for local development. Accounts are
// provisioned outside this service, so this is how a developer gets a bearer
// token for curl or the websocket probe.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/middleware"
	"github.com/NirojT/AspBlogBacken/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	create := flag.Bool("create", false, "Create the user when the username does not exist")
	flag.Usage = func() {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/devtoken [-ttl 24h] <user_id>")
		fmt.Println("  go run ./cmd/devtoken [-ttl 24h] [-create] <username>")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("devtoken refuses to run against a production profile")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	user, err := lookupUser(db, flag.Arg(0), *create)
	if err != nil {
		log.Fatal(err)
	}

	token, err := middleware.IssueToken(middleware.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}, user.ID, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "token for %s (ID: %d), valid %s\n", user.Username, user.ID, *ttl)
	fmt.Println(token)
}

func lookupUser(db *gorm.DB, arg string, create bool) (*models.User, error) {
	var user models.User

	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user with ID %s not found", arg)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &user, nil
	}

	err := db.Where("username = ?", arg).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("database error: %w", err)
	case !create:
		return nil, fmt.Errorf("user %q not found (pass -create to add it)", arg)
	}

	user = models.User{Username: arg, Email: arg + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}
