// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        database.UTCNow,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "-" + uuid.NewString()[:8] + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateBlog inserts a blog owned by userID.
func CreateBlog(t *testing.T, db *gorm.DB, userID uint, title string) *models.Blog {
	t.Helper()
	b := &models.Blog{Title: title, Content: "content of " + title, UserID: userID}
	require.NoError(t, db.Omit("User", "Reactions").Create(b).Error)
	return b
}

// CreateComment inserts a comment, or a reply when parentID is non-nil.
func CreateComment(t *testing.T, db *gorm.DB, blogID, userID uint, content string, parentID *uint) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, BlogID: blogID, UserID: userID, ParentCommentID: parentID}
	require.NoError(t, db.Omit("User", "Reactions").Create(c).Error)
	return c
}

// CreateBlogReaction inserts a reaction targeting a blog.
func CreateBlogReaction(t *testing.T, db *gorm.DB, blogID, userID uint, kind string) *models.Reaction {
	t.Helper()
	r := &models.Reaction{Kind: kind, UserID: userID, BlogID: &blogID}
	require.NoError(t, db.Omit("User").Create(r).Error)
	return r
}

// CreateCommentReaction inserts a reaction targeting a comment.
func CreateCommentReaction(t *testing.T, db *gorm.DB, commentID, userID uint, kind string) *models.Reaction {
	t.Helper()
	r := &models.Reaction{Kind: kind, UserID: userID, CommentID: &commentID}
	require.NoError(t, db.Omit("User").Create(r).Error)
	return r
}
