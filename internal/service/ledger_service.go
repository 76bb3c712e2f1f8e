package service

import (
	"context"
	"encoding/json"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"
	"socioportal/pkg/idgen"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerService owns member balances. Award is the single primitive every
// balance change goes through: reservation confirmations, redemptions,
// refunds, attendance, accrual and manual admin grants. Nothing else in
// the codebase writes Member.Points or points_entry rows.
type LedgerService struct {
	db         *gorm.DB
	cfg        *config.Config
	memberRepo *repository.MemberRepository
	entryRepo  *repository.PointsEntryRepository
	outboxRepo *repository.OutboxRepository
}

func NewLedgerService(db *gorm.DB, cfg *config.Config) *LedgerService {
	return &LedgerService{
		db:         db,
		cfg:        cfg,
		memberRepo: repository.NewMemberRepository(db),
		entryRepo:  repository.NewPointsEntryRepository(db),
		outboxRepo: repository.NewOutboxRepository(db),
	}
}

// Award moves the member's balance by delta (negative for deductions) and
// appends the matching ledger entry. When tx is nil the call runs in its
// own transaction; otherwise it joins the caller's, so compound effects
// like "deduct points + take prize stock + create redemption" commit or
// roll back as one unit.
//
// A deduction below zero fails with ErrInsufficientPoints. Callers are
// expected to have checked sufficiency already; tripping this guard means
// a caller bug or a lost race, never a normal path.
func (s *LedgerService) Award(ctx context.Context, tx *gorm.DB, memberID int64, delta int64, reason, refNo string) (*model.PointsEntry, error) {
	if tx == nil {
		var entry *model.PointsEntry
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			entry, err = s.Award(ctx, tx, memberID, delta, reason, refNo)
			return err
		})
		return entry, err
	}

	member, err := s.memberRepo.GetByID(ctx, tx, memberID)
	if err != nil {
		return nil, err
	}

	if delta < 0 && member.Points+delta < 0 {
		return nil, repository.ErrInsufficientPoints
	}

	if err := s.memberRepo.ApplyDelta(ctx, tx, memberID, delta, member.Version); err != nil {
		return nil, err
	}

	entry := &model.PointsEntry{
		EntryNo:       idgen.GenerateEntryNo(),
		MemberID:      memberID,
		Points:        delta,
		Reason:        reason,
		RefNo:         refNo,
		BalanceBefore: member.Points,
		BalanceAfter:  member.Points + delta,
		EntryDate:     dates.Today(),
	}
	if err := s.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := s.writePointsEvent(ctx, tx, entry); err != nil {
		return nil, err
	}

	log.Debug().
		Int64("member_id", memberID).
		Int64("points", delta).
		Str("reason", reason).
		Int64("balance", entry.BalanceAfter).
		Msg("points awarded")

	return entry, nil
}

func (s *LedgerService) writePointsEvent(ctx context.Context, tx *gorm.DB, entry *model.PointsEntry) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"entry_no":      entry.EntryNo,
		"member_id":     entry.MemberID,
		"points":        entry.Points,
		"reason":        entry.Reason,
		"ref_no":        entry.RefNo,
		"balance_after": entry.BalanceAfter,
		"created_at":    time.Now().Format(time.RFC3339),
	})

	return s.outboxRepo.Create(ctx, tx, &model.OutboxMessage{
		MessageKey: entry.EntryNo,
		Topic:      s.cfg.Kafka.Topic.PointsEvents,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	})
}

// Balance returns the cached balance.
func (s *LedgerService) Balance(ctx context.Context, memberID int64) (int64, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		return 0, err
	}
	return member.Points, nil
}

// History returns the member's ledger newest-first.
func (s *LedgerService) History(ctx context.Context, memberID int64, page, pageSize int) ([]*model.PointsEntry, int64, error) {
	if _, err := s.memberRepo.GetByID(ctx, nil, memberID); err != nil {
		return nil, 0, err
	}
	return s.entryRepo.ListByMemberID(ctx, memberID, page, pageSize)
}

// Audit recomputes the ledger sum and reports whether it matches the
// cached balance.
func (s *LedgerService) Audit(ctx context.Context, memberID int64) (bool, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		return false, err
	}
	sum, err := s.entryRepo.SumDeltas(ctx, memberID)
	if err != nil {
		return false, err
	}
	return sum == member.Points, nil
}
