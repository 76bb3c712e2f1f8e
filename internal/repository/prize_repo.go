package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrPrizeNotFound   = errors.New("prize not found")
	ErrPrizeInactive   = errors.New("prize is not active")
	ErrPrizeOutOfStock = errors.New("prize out of stock")
)

type PrizeRepository struct {
	db *gorm.DB
}

func NewPrizeRepository(db *gorm.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) Create(ctx context.Context, prize *model.Prize) error {
	return r.db.WithContext(ctx).Create(prize).Error
}

func (r *PrizeRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Prize, error) {
	if tx == nil {
		tx = r.db
	}
	var prize model.Prize
	err := tx.WithContext(ctx).Where("id = ?", id).First(&prize).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	return &prize, nil
}

func (r *PrizeRepository) List(ctx context.Context, activeOnly bool) ([]*model.Prize, error) {
	var prizes []*model.Prize
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&prizes).Error
	return prizes, err
}

func (r *PrizeRepository) Update(ctx context.Context, prize *model.Prize) error {
	result := r.db.WithContext(ctx).
		Model(&model.Prize{}).
		Where("id = ?", prize.ID).
		Updates(map[string]interface{}{
			"name":        prize.Name,
			"description": prize.Description,
			"category":    prize.Category,
			"points_cost": prize.PointsCost,
			"stock":       prize.Stock,
			"active":      prize.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPrizeNotFound
	}
	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Prize{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPrizeNotFound
	}
	return nil
}

// DecrementStock takes one unit, guarded in the UPDATE so the counter
// never dips below zero.
func (r *PrizeRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Prize{}).
		Where("id = ? AND stock >= 1", id).
		Update("stock", gorm.Expr("stock - 1"))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, tx, id); err != nil {
			return err
		}
		return ErrPrizeOutOfStock
	}

	return nil
}

// IncrementStock returns one unit after a canceled redemption.
func (r *PrizeRepository) IncrementStock(ctx context.Context, tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Prize{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + 1"))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPrizeNotFound
	}

	return nil
}
