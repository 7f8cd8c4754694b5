// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// PostFlag is the fixed category label a post may carry.
type PostFlag string

// Known post flags.
const (
	FlagQuestion   PostFlag = "question"
	FlagOpinion    PostFlag = "opinion"
	FlagTip        PostFlag = "tip"
	FlagNews       PostFlag = "news"
	FlagProject    PostFlag = "project"
	FlagDiscussion PostFlag = "discussion"
)

// PostFlags lists every valid flag, in display order.
func PostFlags() []PostFlag {
	return []PostFlag{FlagQuestion, FlagOpinion, FlagTip, FlagNews, FlagProject, FlagDiscussion}
}

// Valid reports whether f is one of the known flags.
func (f PostFlag) Valid() bool {
	switch f {
	case FlagQuestion, FlagOpinion, FlagTip, FlagNews, FlagProject, FlagDiscussion:
		return true
	}
	return false
}

// Post represents a forum entry in the Artemis Eco application.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"type:text" json:"content"`
	ImageURL string   `json:"image_url,omitempty"`
	Flag     PostFlag `gorm:"index" json:"flag,omitempty"`
	// RepostOfID references the post this one republishes. One hop only;
	// reposts of reposts are never resolved transitively.
	RepostOfID *uint `gorm:"index" json:"repost_of_id,omitempty"`
	RepostOf   *Post `gorm:"foreignKey:RepostOfID" json:"repost_of,omitempty"`
	// Upvotes only ever increases; there is no downvote operation.
	Upvotes    int       `gorm:"not null;default:0" json:"upvotes"`
	UserID     string    `gorm:"not null;index;size:64" json:"user_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
