package repository

import (
	"context"
	"errors"

	"socioportal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrAlreadyAttended = errors.New("attendance already registered")
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Event, error) {
	if tx == nil {
		tx = r.db
	}
	var event model.Event
	err := tx.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"name":       event.Name,
			"event_date": event.EventDate,
			"points":     event.Points,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// CreateAttendance inserts the (event, member) pair. The pair is unique,
// so a duplicate registration fails before any points move.
func (r *EventRepository) CreateAttendance(ctx context.Context, tx *gorm.DB, attendance *model.EventAttendance) error {
	if tx == nil {
		tx = r.db
	}

	var count int64
	err := tx.WithContext(ctx).
		Model(&model.EventAttendance{}).
		Where("event_id = ? AND member_id = ?", attendance.EventID, attendance.MemberID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyAttended
	}

	return tx.WithContext(ctx).Create(attendance).Error
}

func (r *EventRepository) ListAttendanceByMemberID(ctx context.Context, memberID int64) ([]*model.EventAttendance, error) {
	var attendance []*model.EventAttendance
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&attendance).Error
	return attendance, err
}

func (r *EventRepository) DeleteAttendanceByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.EventAttendance{}).Error
}
