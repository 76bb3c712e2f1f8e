package model

import (
	"time"
)

// DJ is a roster entry. DisplayOrder drives the public listing; reorder
// swaps the values of two adjacent entries.
type DJ struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Style        string    `gorm:"type:varchar(128)" json:"style,omitempty"`
	ImageURL     string    `gorm:"type:varchar(512)" json:"image_url"`
	PresskitURL  string    `gorm:"type:varchar(512)" json:"presskit_url"`
	Instagram    string    `gorm:"type:varchar(256)" json:"instagram,omitempty"`
	Soundcloud   string    `gorm:"type:varchar(256)" json:"soundcloud,omitempty"`
	Spotify      string    `gorm:"type:varchar(256)" json:"spotify,omitempty"`
	BookingEmail string    `gorm:"type:varchar(128)" json:"booking_email,omitempty"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	DisplayOrder int       `gorm:"index;not null" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DJ) TableName() string {
	return "dj"
}
