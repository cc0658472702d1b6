// Package repository implements the data access layer over GORM.
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/models"

	"gorm.io/gorm"
)

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// lookupError maps a single-row lookup failure onto the AppError taxonomy.
func lookupError(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// DateRange selects rows created at or after From and last modified at or
// before To.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ? AND updated_at <= ?", r.From.UTC(), r.To.UTC())
}

// Page is a limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Normalize clamps the limit to [1, 100] and the offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
