// Package models contains data structures for the blog engagement domain.
package models

import "time"

// User is the author or reader referenced by blogs, comments, reactions and
// notifications. Accounts are provisioned outside this service.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the name used in notification messages.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return u.Username
}
