package model

import (
	"time"
)

// Announcement is a news post on the portal front page.
type Announcement struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ImageURL    string    `gorm:"type:varchar(512)" json:"image_url"`
	PublishDate string    `gorm:"type:varchar(64);not null" json:"publish_date"` // localized date string
	Comments    []Comment `gorm:"foreignKey:AnnouncementID" json:"comments"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcement"
}

// Comment on an announcement. Only verified members may comment; the
// author name is snapshotted from the member record.
type Comment struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AnnouncementID int64     `gorm:"index;not null" json:"announcement_id"`
	AuthorID       int64     `gorm:"index;not null" json:"author_id"`
	Author         string    `gorm:"type:varchar(128);not null" json:"author"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	CommentDate    string    `gorm:"type:varchar(64);not null" json:"comment_date"` // localized date string
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comment"
}
