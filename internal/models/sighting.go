package models

import (
	"time"

	"github.com/google/uuid"
)

// Sighting is one reported observation of a stray at a time and place.
type Sighting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StrayID      uint      `gorm:"not null;index" json:"stray_id"`
	Stray        *Stray    `gorm:"foreignKey:StrayID" json:"stray,omitempty"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Lat          float64   `gorm:"not null" json:"lat"`
	Lng          float64   `gorm:"not null" json:"lng"`
	Address1     string    `gorm:"size:200" json:"address1,omitempty"`
	City         string    `gorm:"size:100" json:"city,omitempty"`
	Postcode     string    `gorm:"size:20" json:"postcode,omitempty"`
	Country      string    `gorm:"size:100" json:"country,omitempty"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	SightingTime time.Time `gorm:"not null;index" json:"sighting_time"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	Photos []SightingPhoto `gorm:"foreignKey:SightingID" json:"photos,omitempty"`
}

// SightingPhoto is a photo attached to a sighting. A row exists only after the
// staged object behind it was confirmed present at finalization time.
type SightingPhoto struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SightingID uint      `gorm:"not null;index" json:"sighting_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Key        string    `gorm:"size:500;not null" json:"key"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	ThumbKey   string    `gorm:"size:500" json:"thumb_key,omitempty"`
	ThumbURL   string    `gorm:"size:500" json:"thumb_url,omitempty"`
	Filename   string    `gorm:"size:255" json:"filename"`
	Size       int64     `json:"size"`
	MimeType   string    `gorm:"size:100" json:"mime_type"`
	Caption    string    `gorm:"size:280" json:"caption,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
