package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrAlreadyCanceled    = errors.New("redemption already canceled")
)

type RedemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) Create(ctx context.Context, tx *gorm.DB, redemption *model.PrizeRedemption) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(redemption).Error
}

func (r *RedemptionRepository) GetByNo(ctx context.Context, tx *gorm.DB, redemptionNo string) (*model.PrizeRedemption, error) {
	if tx == nil {
		tx = r.db
	}
	var redemption model.PrizeRedemption
	err := tx.WithContext(ctx).Where("redemption_no = ?", redemptionNo).First(&redemption).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	return &redemption, nil
}

func (r *RedemptionRepository) List(ctx context.Context, status string, page, pageSize int) ([]*model.PrizeRedemption, int64, error) {
	var redemptions []*model.PrizeRedemption
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PrizeRedemption{})
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
		Find(&redemptions).Error

	return redemptions, total, err
}

func (r *RedemptionRepository) ListPendingByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) ([]*model.PrizeRedemption, error) {
	if tx == nil {
		tx = r.db
	}
	var redemptions []*model.PrizeRedemption
	err := tx.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, model.RedemptionStatusPending).
		Find(&redemptions).Error
	return redemptions, err
}

// UpdateStatus performs a CAS transition on the redemption state machine.
// The CAS is what gates the cancellation refund: only the caller whose
// UPDATE actually flipped PENDING to CANCELED may apply the refund, so it
// cannot happen twice. A repeated cancellation maps to ErrAlreadyCanceled,
// everything else off-machine to ErrInvalidTransition.
func (r *RedemptionRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, redemptionNo, fromStatus, toStatus string) error {
	if !model.RedemptionCanTransition(fromStatus, toStatus) {
		return ErrInvalidTransition
	}

	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.PrizeRedemption{}).
		Where("redemption_no = ? AND status = ?", redemptionNo, fromStatus).
		Update("status", toStatus)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		redemption, err := r.GetByNo(ctx, tx, redemptionNo)
		if err != nil {
			return err
		}
		if toStatus == model.RedemptionStatusCanceled && redemption.Status == model.RedemptionStatusCanceled {
			return ErrAlreadyCanceled
		}
		return ErrInvalidTransition
	}

	return nil
}
