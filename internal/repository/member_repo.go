package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrDuplicateMember    = errors.New("member number or email already registered")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrOptimisticLock     = errors.New("concurrent update, retry")
	ErrNotEligible        = errors.New("member is not a verified socio")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, tx *gorm.DB, member *model.Member) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(member).Error
}

func (r *MemberRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Member, error) {
	if tx == nil {
		tx = r.db
	}
	var member model.Member
	err := tx.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ExistsByIdentity reports whether a member already uses the given socio
// code or email. Both are unique across members.
func (r *MemberRepository) ExistsByIdentity(ctx context.Context, memberNo, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("member_no = ? OR email = ?", memberNo, email).
		Count(&count).Error
	return count > 0, err
}

func (r *MemberRepository) List(ctx context.Context, status string) ([]*model.Member, error) {
	var members []*model.Member
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&members).Error
	return members, err
}

// ListVerifiedSocios returns the accrual population.
func (r *MemberRepository) ListVerifiedSocios(ctx context.Context) ([]*model.Member, error) {
	var members []*model.Member
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", model.RoleSocio, model.MemberStatusVerified).
		Find(&members).Error
	return members, err
}

// MarkVerified flips a PENDING member to VERIFIED. The WHERE on the
// current status makes repeat calls a rejected no-op.
func (r *MemberRepository) MarkVerified(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND status = ?", id, model.MemberStatusPending).
		Update("status", model.MemberStatusVerified)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, nil, id); err != nil {
			return err
		}
		return ErrInvalidTransition
	}

	return nil
}

// ApplyDelta moves the balance by delta with the version CAS. For
// deductions the guard `points + delta >= 0` is part of the UPDATE, so a
// negative balance can never be written. RowsAffected 0 is disambiguated
// into insufficient points vs. a lost version race.
func (r *MemberRepository) ApplyDelta(ctx context.Context, tx *gorm.DB, memberID int64, delta int64, version int) error {
	if tx == nil {
		tx = r.db
	}

	query := tx.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND version = ?", memberID, version)
	if delta < 0 {
		query = query.Where("points + ? >= 0", delta)
	}

	result := query.Updates(map[string]interface{}{
		"points":  gorm.Expr("points + ?", delta),
		"version": gorm.Expr("version + 1"),
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		member, err := r.GetByID(ctx, tx, memberID)
		if err != nil {
			return err
		}
		if delta < 0 && member.Points+delta < 0 {
			return ErrInsufficientPoints
		}
		return ErrOptimisticLock
	}

	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Delete(&model.Member{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
