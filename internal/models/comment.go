package models

import "time"

// Comment is either a top-level comment on a blog or, when ParentCommentID is
// set, a direct reply to a top-level comment.
type Comment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BlogID          uint       `gorm:"not null;index" json:"blog_id"`
	ParentCommentID *uint      `gorm:"index" json:"parent_comment_id,omitempty"`
	Reactions       []Reaction `gorm:"foreignKey:CommentID" json:"reactions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// RootID returns the id of the top-level comment this comment belongs to.
func (c *Comment) RootID() uint {
	if c.ParentCommentID != nil {
		return *c.ParentCommentID
	}
	return c.ID
}
