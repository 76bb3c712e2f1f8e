package model

import (
	"time"
)

const (
	RedemptionStatusPending   = "PENDING"
	RedemptionStatusDelivered = "DELIVERED"
	RedemptionStatusCanceled  = "CANCELED"
)

// Both exits from PENDING are terminal. The PENDING -> CANCELED edge is
// the only one that moves points and stock (the refund), which is why the
// transition is applied as a compare-and-set on the current status.
var redemptionTransitions = map[string][]string{
	RedemptionStatusPending: {RedemptionStatusDelivered, RedemptionStatusCanceled},
}

func RedemptionCanTransition(from, to string) bool {
	for _, s := range redemptionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PrizeRedemption records a member exchanging points for a prize.
// PointsCost is captured at redemption time so a later price change on the
// prize cannot alter the refund amount.
type PrizeRedemption struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RedemptionNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"redemption_no"`
	MemberID     int64     `gorm:"index;not null" json:"member_id"`
	PrizeID      int64     `gorm:"index;not null" json:"prize_id"`
	PrizeName    string    `gorm:"type:varchar(128);not null" json:"prize_name"`
	PointsCost   int64     `gorm:"not null" json:"points_cost"`
	Status       string    `gorm:"type:varchar(20);index;not null" json:"status"`
	RedeemedAt   string    `gorm:"type:varchar(64);not null" json:"redeemed_at"` // localized date string
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PrizeRedemption) TableName() string {
	return "prize_redemption"
}
