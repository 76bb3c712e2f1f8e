package model

import (
	"time"
)

const (
	RoleSocio = "SOCIO"
	RoleAdmin = "ADMIN"
)

const (
	MemberStatusPending  = "PENDING"
	MemberStatusVerified = "VERIFIED"
)

// Member is a registered user of the collective.
//
// Points is the cached balance. It must always equal the sum of the
// member's points_entry deltas; only the ledger service may change it.
type Member struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberNo     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"member_no"` // socio code, e.g. S001
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Role         string    `gorm:"type:varchar(16);not null;default:SOCIO" json:"role"`
	Status       string    `gorm:"type:varchar(16);index;not null;default:PENDING" json:"status"`
	Points       int64     `gorm:"not null;default:0" json:"points"`
	Version      int       `gorm:"not null;default:0" json:"version"` // optimistic lock
	RegisteredAt string    `gorm:"type:varchar(64);not null" json:"registered_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "member"
}

// Eligible reports whether the member may reserve merch, redeem prizes
// and receive seniority points.
func (m *Member) Eligible() bool {
	return m.Role == RoleSocio && m.Status == MemberStatusVerified
}
