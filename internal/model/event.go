package model

import (
	"time"
)

// Event is a collective party/session members can attend. Attending is
// worth Points, awarded once per member when an admin registers the
// attendance.
type Event struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	EventDate string    `gorm:"type:varchar(64);not null" json:"event_date"` // localized date string
	Points    int64     `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "event"
}

// EventAttendance is the attendance log. The unique (event, member) pair
// is what makes attendance points a one-time grant.
type EventAttendance struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    int64     `gorm:"uniqueIndex:idx_event_member;not null" json:"event_id"`
	MemberID   int64     `gorm:"uniqueIndex:idx_event_member;index;not null" json:"member_id"`
	EventName  string    `gorm:"type:varchar(128);not null" json:"event_name"`
	AttendedAt string    `gorm:"type:varchar(64);not null" json:"attended_at"` // localized date string
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EventAttendance) TableName() string {
	return "event_attendance"
}
