package service

import (
	"context"
	"fmt"

	"socioportal/internal/config"
	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EventService manages events and the one-time attendance grant.
type EventService struct {
	db         *gorm.DB
	cfg        *config.Config
	ledger     *LedgerService
	eventRepo  *repository.EventRepository
	memberRepo *repository.MemberRepository
}

func NewEventService(db *gorm.DB, cfg *config.Config) *EventService {
	return &EventService{
		db:         db,
		cfg:        cfg,
		ledger:     NewLedgerService(db, cfg),
		eventRepo:  repository.NewEventRepository(db),
		memberRepo: repository.NewMemberRepository(db),
	}
}

func (s *EventService) Create(ctx context.Context, event *model.Event) error {
	if event.EventDate == "" {
		event.EventDate = dates.Today()
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *EventService) List(ctx context.Context) ([]*model.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) Update(ctx context.Context, event *model.Event) error {
	return s.eventRepo.Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

// RegisterAttendance logs a verified socio at an event and credits the
// event's points. The unique attendance pair makes repeat registrations
// fail before the ledger is touched, so the grant happens once.
func (s *EventService) RegisterAttendance(ctx context.Context, eventID, memberID int64) (*model.EventAttendance, error) {
	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		return nil, err
	}
	if !member.Eligible() {
		return nil, repository.ErrNotEligible
	}

	attendance := &model.EventAttendance{
		EventID:    event.ID,
		MemberID:   member.ID,
		EventName:  event.Name,
		AttendedAt: dates.Today(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.CreateAttendance(ctx, tx, attendance); err != nil {
			return err
		}

		reason := fmt.Sprintf("Asistencia a %s", event.Name)
		refNo := fmt.Sprintf("EVT%d", event.ID)
		_, err := s.ledger.Award(ctx, tx, member.ID, event.Points, reason, refNo)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("event_id", eventID).
		Int64("member_id", memberID).
		Int64("points", event.Points).
		Msg("attendance registered")

	return attendance, nil
}
