package models

import "time"

// Blog is an authored article. It owns its comments and the reactions that
// target it directly.
type Blog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null;index" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	ImageName string `json:"image_name,omitempty"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	// User is nil when the owning account no longer resolves.
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reactions []Reaction `gorm:"foreignKey:BlogID" json:"reactions,omitempty"`
	// ContentHTML is rendered from Content on read and never persisted.
	ContentHTML string    `gorm:"-" json:"content_html,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID is the blog's author.
func (b *Blog) OwnedBy(userID uint) bool {
	return b != nil && b.UserID == userID
}
