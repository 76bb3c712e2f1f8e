package model

import (
	"time"
)

const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusCanceled  = "CANCELED"
	ReservationStatusExpired   = "EXPIRED"
)

// Stock is taken when the reservation is created, so every transition out
// of PENDING is terminal: CONFIRMED keeps the stock, CANCELED and EXPIRED
// give it back.
var reservationTransitions = map[string][]string{
	ReservationStatusPending: {ReservationStatusConfirmed, ReservationStatusCanceled, ReservationStatusExpired},
}

func ReservationCanTransition(from, to string) bool {
	for _, s := range reservationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Reservation links a member to a product size/quantity. PointsAwarded is
// nil while PENDING and set exactly once when the sale is confirmed.
// ProductName is snapshotted at creation so ledger reasons survive catalog
// edits.
type Reservation struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"reservation_no"`
	MemberID      int64     `gorm:"index;not null" json:"member_id"`
	ProductID     int64     `gorm:"index;not null" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(128);not null" json:"product_name"`
	Size          string    `gorm:"type:varchar(32);not null" json:"size"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	Status        string    `gorm:"type:varchar(20);index;not null" json:"status"`
	PointsAwarded *int64    `json:"points_awarded"`
	ReservedAt    string    `gorm:"type:varchar(64);not null" json:"reserved_at"` // localized date string
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservation"
}
