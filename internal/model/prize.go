package model

import (
	"time"
)

// Prize is a rewards catalog entry exchangeable for points.
type Prize struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(64)" json:"category"`
	PointsCost  int64     `gorm:"not null" json:"points_cost"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prize) TableName() string {
	return "prize"
}
