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

// RedemptionService runs the prize redemption lifecycle: points out and
// prize stock down on redemption, both back exactly once on cancellation.
type RedemptionService struct {
	db             *gorm.DB
	redisClient    *redis.Client
	cfg            *config.Config
	ledger         *LedgerService
	memberRepo     *repository.MemberRepository
	prizeRepo      *repository.PrizeRepository
	redemptionRepo *repository.RedemptionRepository
	outboxRepo     *repository.OutboxRepository
}

func NewRedemptionService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *RedemptionService {
	return &RedemptionService{
		db:             db,
		redisClient:    redisClient,
		cfg:            cfg,
		ledger:         NewLedgerService(db, cfg),
		memberRepo:     repository.NewMemberRepository(db),
		prizeRepo:      repository.NewPrizeRepository(db),
		redemptionRepo: repository.NewRedemptionRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

// Redeem exchanges the prize's point cost for one unit of its stock.
// Preconditions are checked up front for a precise error, then enforced
// again inside the transaction by the ledger guard and the conditional
// stock decrement. A balance exactly equal to the cost is enough.
func (s *RedemptionService) Redeem(ctx context.Context, memberID, prizeID int64) (*model.PrizeRedemption, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		return nil, err
	}
	if !member.Eligible() {
		return nil, repository.ErrNotEligible
	}

	prize, err := s.prizeRepo.GetByID(ctx, nil, prizeID)
	if err != nil {
		return nil, err
	}
	if !prize.Active {
		return nil, repository.ErrPrizeInactive
	}
	if prize.Stock <= 0 {
		return nil, repository.ErrPrizeOutOfStock
	}
	if member.Points < prize.PointsCost {
		return nil, repository.ErrInsufficientPoints
	}

	redemptionNo := idgen.GenerateRedemptionNo()

	memberLock := lock.NewMemberLock(s.redisClient, memberID, redemptionNo)
	if err := memberLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("member busy, retry later: %w", err)
	}
	defer memberLock.Unlock(ctx)

	var redemption *model.PrizeRedemption
	err = s.db.Transaction(func(tx *gorm.DB) error {
		reason := fmt.Sprintf("Canje: %s", prize.Name)
		if _, err := s.ledger.Award(ctx, tx, memberID, -prize.PointsCost, reason, redemptionNo); err != nil {
			return err
		}

		if err := s.prizeRepo.DecrementStock(ctx, tx, prizeID); err != nil {
			return err
		}

		redemption = &model.PrizeRedemption{
			RedemptionNo: redemptionNo,
			MemberID:     memberID,
			PrizeID:      prize.ID,
			PrizeName:    prize.Name,
			PointsCost:   prize.PointsCost,
			Status:       model.RedemptionStatusPending,
			RedeemedAt:   dates.Today(),
		}
		if err := s.redemptionRepo.Create(ctx, tx, redemption); err != nil {
			return err
		}

		return s.writeRedemptionEvent(ctx, tx, redemption, "prize_redeemed")
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("redemption_no", redemptionNo).
		Int64("member_id", memberID).
		Int64("points_cost", prize.PointsCost).
		Msg("prize redeemed")

	return redemption, nil
}

// UpdateStatus moves a redemption to DELIVERED or CANCELED.
//
// DELIVERED only flips the status. CANCELED refunds the captured
// PointsCost and restores one unit of prize stock; the CAS transition in
// the repository guarantees only the call that actually flipped the
// status applies the refund, so repeating the cancellation can never
// refund twice.
func (s *RedemptionService) UpdateStatus(ctx context.Context, redemptionNo, newStatus string) (*model.PrizeRedemption, error) {
	if newStatus != model.RedemptionStatusDelivered && newStatus != model.RedemptionStatusCanceled {
		return nil, repository.ErrInvalidTransition
	}

	redemption, err := s.redemptionRepo.GetByNo(ctx, nil, redemptionNo)
	if err != nil {
		return nil, err
	}

	if newStatus == model.RedemptionStatusDelivered {
		if err := s.redemptionRepo.UpdateStatus(ctx, nil, redemptionNo, model.RedemptionStatusPending, newStatus); err != nil {
			return nil, err
		}
		log.Info().Str("redemption_no", redemptionNo).Msg("redemption delivered")
		return s.redemptionRepo.GetByNo(ctx, nil, redemptionNo)
	}

	rdmLock := lock.NewRedemptionLock(s.redisClient, redemptionNo, idgen.GenerateEntryNo())
	if err := rdmLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("redemption busy, retry later: %w", err)
	}
	defer rdmLock.Unlock(ctx)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.redemptionRepo.UpdateStatus(ctx, tx, redemptionNo, model.RedemptionStatusPending, model.RedemptionStatusCanceled); err != nil {
			return err
		}

		reason := fmt.Sprintf("Devolución por canje cancelado: %s", redemption.PrizeName)
		if _, err := s.ledger.Award(ctx, tx, redemption.MemberID, redemption.PointsCost, reason, redemptionNo); err != nil {
			return err
		}

		if err := s.prizeRepo.IncrementStock(ctx, tx, redemption.PrizeID); err != nil {
			return err
		}

		return s.writeRedemptionEvent(ctx, tx, redemption, "redemption_canceled")
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("redemption_no", redemptionNo).
		Int64("refund", redemption.PointsCost).
		Msg("redemption canceled, points refunded")

	return s.redemptionRepo.GetByNo(ctx, nil, redemptionNo)
}

func (s *RedemptionService) Get(ctx context.Context, redemptionNo string) (*model.PrizeRedemption, error) {
	return s.redemptionRepo.GetByNo(ctx, nil, redemptionNo)
}

func (s *RedemptionService) List(ctx context.Context, status string, page, pageSize int) ([]*model.PrizeRedemption, int64, error) {
	return s.redemptionRepo.List(ctx, status, page, pageSize)
}

func (s *RedemptionService) writeRedemptionEvent(ctx context.Context, tx *gorm.DB, redemption *model.PrizeRedemption, kind string) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"event":         kind,
		"redemption_no": redemption.RedemptionNo,
		"member_id":     redemption.MemberID,
		"prize_id":      redemption.PrizeID,
		"points_cost":   redemption.PointsCost,
		"occurred_at":   time.Now().Format(time.RFC3339),
	})

	return s.outboxRepo.Create(ctx, tx, &model.OutboxMessage{
		MessageKey: redemption.RedemptionNo,
		Topic:      s.cfg.Kafka.Topic.PointsEvents,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	})
}
