package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/infrastructure/lock"
	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"
	"socioportal/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReservationService runs the merch reservation lifecycle. Stock is taken
// optimistically when the reservation is created; confirmation awards the
// points fixed by the admin, cancellation and expiry give the stock back.
type ReservationService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	cfg             *config.Config
	ledger          *LedgerService
	memberRepo      *repository.MemberRepository
	productRepo     *repository.ProductRepository
	reservationRepo *repository.ReservationRepository
	outboxRepo      *repository.OutboxRepository
}

func NewReservationService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ReservationService {
	return &ReservationService{
		db:              db,
		redisClient:     redisClient,
		cfg:             cfg,
		ledger:          NewLedgerService(db, cfg),
		memberRepo:      repository.NewMemberRepository(db),
		productRepo:     repository.NewProductRepository(db),
		reservationRepo: repository.NewReservationRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

type CreateReservationRequest struct {
	MemberID  int64  `json:"member_id" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// Create reserves quantity units of a product size for a verified socio.
// The stock decrement happens now, inside the same transaction as the
// reservation row, so a PENDING reservation always has its units held.
func (s *ReservationService) Create(ctx context.Context, req *CreateReservationRequest) (*model.Reservation, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, req.MemberID)
	if err != nil {
		return nil, err
	}
	if !member.Eligible() {
		return nil, repository.ErrNotEligible
	}

	reservationNo := idgen.GenerateReservationNo()

	memberLock := lock.NewMemberLock(s.redisClient, req.MemberID, reservationNo)
	if err := memberLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("member busy, retry later: %w", err)
	}
	defer memberLock.Unlock(ctx)

	var reservation *model.Reservation
	err = s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.Active {
			return repository.ErrProductNotFound
		}

		if err := s.productRepo.DecrementStock(ctx, tx, req.ProductID, req.Size, req.Quantity); err != nil {
			return err
		}

		reservation = &model.Reservation{
			ReservationNo: reservationNo,
			MemberID:      member.ID,
			ProductID:     product.ID,
			ProductName:   product.Name,
			Size:          req.Size,
			Quantity:      req.Quantity,
			Status:        model.ReservationStatusPending,
			ReservedAt:    dates.Today(),
			ExpiresAt:     time.Now().AddDate(0, 0, s.cfg.Business.ReservationHoldDays),
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			return err
		}

		return s.writeReservationEvent(ctx, tx, reservation, "reservation_created")
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_no", reservationNo).
		Int64("member_id", member.ID).
		Str("size", req.Size).
		Int64("quantity", req.Quantity).
		Msg("reservation created")

	return reservation, nil
}

// ConfirmSale transitions a PENDING reservation to CONFIRMED, fixes the
// awarded points and credits them through the ledger. The CAS transition
// carries the idempotence: a second confirmation fails with
// ErrAlreadyConfirmed and awards nothing.
func (s *ReservationService) ConfirmSale(ctx context.Context, reservationNo string, pointsToAward int64) (*model.Reservation, error) {
	reservation, err := s.reservationRepo.GetByNo(ctx, nil, reservationNo)
	if err != nil {
		return nil, err
	}

	resLock := lock.NewReservationLock(s.redisClient, reservationNo, idgen.GenerateEntryNo())
	if err := resLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("reservation busy, retry later: %w", err)
	}
	defer resLock.Unlock(ctx)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reservationRepo.MarkConfirmed(ctx, tx, reservationNo, pointsToAward); err != nil {
			return err
		}

		reason := fmt.Sprintf("Venta confirmada: %s", reservation.ProductName)
		if _, err := s.ledger.Award(ctx, tx, reservation.MemberID, pointsToAward, reason, reservationNo); err != nil {
			return err
		}

		return s.writeReservationEvent(ctx, tx, reservation, "sale_confirmed")
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_no", reservationNo).
		Int64("points", pointsToAward).
		Msg("sale confirmed")

	return s.reservationRepo.GetByNo(ctx, nil, reservationNo)
}

// Cancel releases a PENDING reservation and returns its stock.
func (s *ReservationService) Cancel(ctx context.Context, reservationNo string) error {
	reservation, err := s.reservationRepo.GetByNo(ctx, nil, reservationNo)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reservationRepo.UpdateStatus(ctx, tx, reservationNo, model.ReservationStatusPending, model.ReservationStatusCanceled); err != nil {
			return err
		}
		if err := s.productRepo.IncrementStock(ctx, tx, reservation.ProductID, reservation.Size, reservation.Quantity); err != nil {
			return err
		}
		return s.writeReservationEvent(ctx, tx, reservation, "reservation_canceled")
	})
	if err != nil {
		return err
	}

	log.Info().Str("reservation_no", reservationNo).Msg("reservation canceled, stock restored")
	return nil
}

// ExpireOverdue releases PENDING reservations whose hold window passed.
// Called by the expiry job; returns how many were expired.
func (s *ReservationService) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	overdue, err := s.reservationRepo.GetExpired(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, reservation := range overdue {
		reservation := reservation
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.reservationRepo.UpdateStatus(ctx, tx, reservation.ReservationNo, model.ReservationStatusPending, model.ReservationStatusExpired); err != nil {
				return err
			}
			if err := s.productRepo.IncrementStock(ctx, tx, reservation.ProductID, reservation.Size, reservation.Quantity); err != nil {
				return err
			}
			return s.writeReservationEvent(ctx, tx, reservation, "reservation_expired")
		})
		if err != nil {
			log.Error().Err(err).Str("reservation_no", reservation.ReservationNo).Msg("expire reservation failed")
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *ReservationService) Get(ctx context.Context, reservationNo string) (*model.Reservation, error) {
	return s.reservationRepo.GetByNo(ctx, nil, reservationNo)
}

func (s *ReservationService) List(ctx context.Context, status string, page, pageSize int) ([]*model.Reservation, int64, error) {
	return s.reservationRepo.List(ctx, status, page, pageSize)
}

func (s *ReservationService) writeReservationEvent(ctx context.Context, tx *gorm.DB, reservation *model.Reservation, kind string) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"event":          kind,
		"reservation_no": reservation.ReservationNo,
		"member_id":      reservation.MemberID,
		"product_id":     reservation.ProductID,
		"size":           reservation.Size,
		"quantity":       reservation.Quantity,
		"occurred_at":    time.Now().Format(time.RFC3339),
	})

	return s.outboxRepo.Create(ctx, tx, &model.OutboxMessage{
		MessageKey: reservation.ReservationNo,
		Topic:      s.cfg.Kafka.Topic.ReservationEvents,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	})
}
