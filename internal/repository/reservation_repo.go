package repository

import (
	"context"
	"errors"
	"time"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyConfirmed    = errors.New("reservation already confirmed")
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *model.Reservation) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(reservation).Error
}

func (r *ReservationRepository) GetByNo(ctx context.Context, tx *gorm.DB, reservationNo string) (*model.Reservation, error) {
	if tx == nil {
		tx = r.db
	}
	var reservation model.Reservation
	err := tx.WithContext(ctx).Where("reservation_no = ?", reservationNo).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepository) List(ctx context.Context, status string, page, pageSize int) ([]*model.Reservation, int64, error) {
	var reservations []*model.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Reservation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reservations).Error

	return reservations, total, err
}

// ListByMemberID is the member's reservation history, oldest first, the
// order the portal profile shows it in.
func (r *ReservationRepository) ListByMemberID(ctx context.Context, memberID int64) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *ReservationRepository) ListPendingByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) ([]*model.Reservation, error) {
	if tx == nil {
		tx = r.db
	}
	var reservations []*model.Reservation
	err := tx.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, model.ReservationStatusPending).
		Find(&reservations).Error
	return reservations, err
}

// MarkConfirmed is the one write that sets PointsAwarded. The CAS on
// PENDING makes a second confirmation attempt fail instead of awarding
// twice, and PointsAwarded can never be overwritten afterwards.
func (r *ReservationRepository) MarkConfirmed(ctx context.Context, tx *gorm.DB, reservationNo string, points int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_no = ? AND status = ?", reservationNo, model.ReservationStatusPending).
		Updates(map[string]interface{}{
			"status":         model.ReservationStatusConfirmed,
			"points_awarded": points,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		reservation, err := r.GetByNo(ctx, tx, reservationNo)
		if err != nil {
			return err
		}
		if reservation.Status == model.ReservationStatusConfirmed {
			return ErrAlreadyConfirmed
		}
		return ErrInvalidTransition
	}

	return nil
}

// UpdateStatus performs a CAS transition validated against the
// reservation state machine.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, reservationNo, fromStatus, toStatus string) error {
	if !model.ReservationCanTransition(fromStatus, toStatus) {
		return ErrInvalidTransition
	}

	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_no = ? AND status = ?", reservationNo, fromStatus).
		Update("status", toStatus)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

// GetExpired returns PENDING reservations whose hold window has passed.
func (r *ReservationRepository) GetExpired(ctx context.Context, before time.Time, limit int) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.ReservationStatusPending, before).
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}
