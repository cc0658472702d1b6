package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Well-known reaction kinds. Any other non-empty kind is stored as given.
const (
	ReactionUpvote   = "upvote"
	ReactionDownvote = "downvote"
)

// Reaction is a user's vote on exactly one target: a blog or a comment.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BlogID    *uint     `gorm:"index" json:"blog_id,omitempty"`
	CommentID *uint     `gorm:"index" json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsUpvote matches the upvote kind case-insensitively.
func (r *Reaction) IsUpvote() bool {
	return strings.EqualFold(r.Kind, ReactionUpvote)
}

// IsDownvote matches the downvote kind case-insensitively.
func (r *Reaction) IsDownvote() bool {
	return strings.EqualFold(r.Kind, ReactionDownvote)
}

// ValidateTarget enforces that a reaction points at a blog or a comment,
// never both and never neither.
func (r *Reaction) ValidateTarget() error {
	switch {
	case r.BlogID != nil && r.CommentID != nil:
		return NewInvariantViolationError("reaction must target either a blog or a comment, not both")
	case r.BlogID == nil && r.CommentID == nil:
		return NewInvariantViolationError("reaction must target a blog or a comment")
	}
	return nil
}

// BeforeSave rejects rows that would break target exclusivity.
func (r *Reaction) BeforeSave(_ *gorm.DB) error {
	return r.ValidateTarget()
}

// ReactionCounts summarises reactions by kind.
type ReactionCounts struct {
	Reacts    int64 `json:"reacts"`
	Upvotes   int64 `json:"upvote"`
	Downvotes int64 `json:"downvote"`
}
