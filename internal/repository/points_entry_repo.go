package repository

import (
	"context"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

type PointsEntryRepository struct {
	db *gorm.DB
}

func NewPointsEntryRepository(db *gorm.DB) *PointsEntryRepository {
	return &PointsEntryRepository{db: db}
}

func (r *PointsEntryRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.PointsEntry) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

// ListByMemberID returns the member's ledger newest-first. Ordering is by
// id, i.e. insertion order: entries of the same day must keep the order
// they were appended in, so the date string is not sortable here.
func (r *PointsEntryRepository) ListByMemberID(ctx context.Context, memberID int64, page, pageSize int) ([]*model.PointsEntry, int64, error) {
	var entries []*model.PointsEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&model.PointsEntry{}).Where("member_id = ?", memberID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error

	return entries, total, err
}

// HasEntry reports whether the member already has an entry with the given
// date string and reason. This (date, reason) pair is the idempotence
// marker of the seniority accrual.
func (r *PointsEntryRepository) HasEntry(ctx context.Context, memberID int64, entryDate, reason string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PointsEntry{}).
		Where("member_id = ? AND entry_date = ? AND reason = ?", memberID, entryDate, reason).
		Count(&count).Error
	return count > 0, err
}

// SumDeltas totals the member's ledger. Used to audit the cached balance.
func (r *PointsEntryRepository) SumDeltas(ctx context.Context, memberID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.PointsEntry{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *PointsEntryRepository) DeleteByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.PointsEntry{}).Error
}
