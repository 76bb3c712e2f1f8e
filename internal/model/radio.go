package model

import (
	"time"
)

// RadioConfig is the single-row configuration of the portal's radio
// stream. The row always has ID 1.
type RadioConfig struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	StreamURL string    `gorm:"type:varchar(512);not null" json:"stream_url"`
	InfoText  string    `gorm:"type:varchar(512)" json:"info_text"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RadioConfig) TableName() string {
	return "radio_config"
}
