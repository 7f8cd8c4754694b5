package models

import (
	"time"
)

// Comment represents a reply attached to exactly one post.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     string    `gorm:"not null;index;size:64" json:"user_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
