package model

import (
	"time"
)

// PointsEntry is one row of a member's points ledger.
//
// The ledger is append only: rows are never updated or deleted while the
// member exists. Display order is insertion order (id descending), not the
// date value, since several entries can share the same localized date.
// BalanceBefore/BalanceAfter snapshot the balance around the movement so
// the ledger can be audited against the cached member balance.
type PointsEntry struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryNo       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"entry_no"`
	MemberID      int64     `gorm:"index;index:idx_points_marker;not null" json:"member_id"`
	Points        int64     `gorm:"not null" json:"points"` // signed delta
	Reason        string    `gorm:"type:varchar(256);index:idx_points_marker;not null" json:"reason"`
	RefNo         string    `gorm:"type:varchar(64);index" json:"ref_no,omitempty"` // originating reservation/redemption/event number
	BalanceBefore int64     `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`
	EntryDate     string    `gorm:"type:varchar(64);index:idx_points_marker;not null" json:"entry_date"` // localized, e.g. "15 de Noviembre, 2024"
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PointsEntry) TableName() string {
	return "points_entry"
}
