package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrDJNotFound           = errors.New("dj not found")
)

// AnnouncementRepository covers announcements and their comments.
type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.db.WithContext(ctx).Preload("Comments").Where("id = ?", id).First(&announcement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &announcement, nil
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]*model.Announcement, error) {
	var announcements []*model.Announcement
	err := r.db.WithContext(ctx).Preload("Comments").Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement *model.Announcement) error {
	result := r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("id = ?", announcement.ID).
		Updates(map[string]interface{}{
			"title":     announcement.Title,
			"content":   announcement.Content,
			"image_url": announcement.ImageURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("announcement_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Announcement{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAnnouncementNotFound
		}
		return nil
	})
}

func (r *AnnouncementRepository) AddComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// DJRepository covers the public roster.
type DJRepository struct {
	db *gorm.DB
}

func NewDJRepository(db *gorm.DB) *DJRepository {
	return &DJRepository{db: db}
}

func (r *DJRepository) Create(ctx context.Context, dj *model.DJ) error {
	return r.db.WithContext(ctx).Create(dj).Error
}

func (r *DJRepository) GetByID(ctx context.Context, id int64) (*model.DJ, error) {
	var dj model.DJ
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDJNotFound
		}
		return nil, err
	}
	return &dj, nil
}

func (r *DJRepository) List(ctx context.Context) ([]*model.DJ, error) {
	var djs []*model.DJ
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&djs).Error
	return djs, err
}

// MaxDisplayOrder returns the highest order in use; new entries go after.
func (r *DJRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.DJ{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *DJRepository) Update(ctx context.Context, dj *model.DJ) error {
	result := r.db.WithContext(ctx).
		Model(&model.DJ{}).
		Where("id = ?", dj.ID).
		Updates(map[string]interface{}{
			"name":          dj.Name,
			"bio":           dj.Bio,
			"style":         dj.Style,
			"image_url":     dj.ImageURL,
			"presskit_url":  dj.PresskitURL,
			"instagram":     dj.Instagram,
			"soundcloud":    dj.Soundcloud,
			"spotify":       dj.Spotify,
			"booking_email": dj.BookingEmail,
			"phone":         dj.Phone,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDJNotFound
	}
	return nil
}

func (r *DJRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.DJ{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDJNotFound
	}
	return nil
}

// SwapDisplayOrder exchanges the ordering of two roster entries in one
// transaction.
func (r *DJRepository) SwapDisplayOrder(ctx context.Context, a, b *model.DJ) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.DJ{}).Where("id = ?", a.ID).Update("display_order", b.DisplayOrder).Error; err != nil {
			return err
		}
		return tx.Model(&model.DJ{}).Where("id = ?", b.ID).Update("display_order", a.DisplayOrder).Error
	})
}

// RadioRepository reads and writes the single radio configuration row.
type RadioRepository struct {
	db *gorm.DB
}

func NewRadioRepository(db *gorm.DB) *RadioRepository {
	return &RadioRepository{db: db}
}

func (r *RadioRepository) Get(ctx context.Context) (*model.RadioConfig, error) {
	var cfg model.RadioConfig
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.RadioConfig{ID: 1}, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *RadioRepository) Save(ctx context.Context, cfg *model.RadioConfig) error {
	cfg.ID = 1
	return r.db.WithContext(ctx).Save(cfg).Error
}
