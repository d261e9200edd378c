package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunityPost is a discussion post, optionally pinned to a sighting or a
// stray. Posts referencing a sighting are removed when the sighting is deleted.
type CommunityPost struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SightingID   *uint          `gorm:"index" json:"sighting_id,omitempty"`
	StrayID      *uint          `gorm:"index" json:"stray_id,omitempty"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Comments  []PostComment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Reactions []PostReaction `gorm:"foreignKey:PostID" json:"reactions,omitempty"`
}

type PostComment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostReaction is one user's emoji reaction on a post. One row per
// user/post/emoji combination.
type PostReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_reaction_post_user_emoji" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_post_user_emoji" json:"user_id"`
	Emoji     string    `gorm:"size:10;not null;uniqueIndex:idx_reaction_post_user_emoji" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// NameSuggestion is a proposed name for an unnamed stray.
type NameSuggestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StrayID   uint      `gorm:"not null;index" json:"stray_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	VoteCount int       `gorm:"default:0" json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Bounty statuses.
var BountyStatuses = []string{"open", "claimed", "closed"}

// Bounty is a pledge attached to a stray (vet care, rehoming, capture help).
type Bounty struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StrayID   uint      `gorm:"not null;index" json:"stray_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Note      string    `gorm:"size:500" json:"note,omitempty"`
	Status    string    `gorm:"size:20;default:'open'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
