package service

import (
	"context"
	"errors"
	"testing"

	"socioportal/internal/model"
	"socioportal/internal/repository"
)

func TestLedgerAwardAccumulates(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	entry, err := ledger.Award(ctx, nil, member.ID, 100, "Participación activa en foro", "")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if entry.BalanceBefore != 0 || entry.BalanceAfter != 100 {
		t.Errorf("entry balances = %d/%d, want 0/100", entry.BalanceBefore, entry.BalanceAfter)
	}

	if _, err := ledger.Award(ctx, nil, member.ID, 50, "Asistencia a Fiesta de verano", ""); err != nil {
		t.Fatalf("second award: %v", err)
	}

	balance, err := ledger.Balance(ctx, member.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 150 {
		t.Errorf("balance = %d, want 150", balance)
	}
}

func TestLedgerDeductionGuard(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 30, "seed", ""); err != nil {
		t.Fatalf("seed award: %v", err)
	}

	_, err := ledger.Award(ctx, nil, member.ID, -50, "deduction", "")
	if !errors.Is(err, repository.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	// A failed deduction must leave no trace: balance and ledger untouched.
	if got := memberPoints(t, db, member.ID); got != 30 {
		t.Errorf("balance after failed deduction = %d, want 30", got)
	}
	entries, total, err := ledger.History(ctx, member.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Errorf("ledger has %d entries, want 1", total)
	}
}

func TestLedgerDeductionToZero(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 80, "seed", ""); err != nil {
		t.Fatalf("seed award: %v", err)
	}
	entry, err := ledger.Award(ctx, nil, member.ID, -80, "spend all", "")
	if err != nil {
		t.Fatalf("deduct to zero: %v", err)
	}
	if entry.BalanceAfter != 0 {
		t.Errorf("balance after = %d, want 0", entry.BalanceAfter)
	}
}

func TestLedgerHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	reasons := []string{"first", "second", "third"}
	for _, r := range reasons {
		if _, err := ledger.Award(ctx, nil, member.ID, 10, r, ""); err != nil {
			t.Fatalf("award %q: %v", r, err)
		}
	}

	entries, total, err := ledger.History(ctx, member.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if entries[0].Reason != "third" || entries[2].Reason != "first" {
		t.Errorf("history order wrong: %q ... %q", entries[0].Reason, entries[2].Reason)
	}
}

func TestLedgerAudit(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	for _, delta := range []int64{100, -40, 25} {
		if _, err := ledger.Award(ctx, nil, member.ID, delta, "op", ""); err != nil {
			t.Fatalf("award %d: %v", delta, err)
		}
	}

	consistent, err := ledger.Audit(ctx, member.ID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !consistent {
		t.Error("expected ledger and cached balance to be consistent")
	}
	if got := memberPoints(t, db, member.ID); got != 85 {
		t.Errorf("balance = %d, want 85", got)
	}

	// Corrupt the cached balance behind the ledger's back; the audit must
	// see the mismatch.
	if err := db.Model(&model.Member{}).Where("id = ?", member.ID).Update("points", 999).Error; err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}
	consistent, err = ledger.Audit(ctx, member.ID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if consistent {
		t.Error("expected audit to flag corrupted balance")
	}
}

func TestLedgerWritesOutboxEvents(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)

	if _, err := ledger.Award(context.Background(), nil, member.ID, 10, "seed", ""); err != nil {
		t.Fatalf("award: %v", err)
	}

	var messages []*model.OutboxMessage
	if err := db.Find(&messages).Error; err != nil {
		t.Fatalf("query outbox: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("outbox has %d messages, want 1", len(messages))
	}
	if messages[0].Topic != cfg.Kafka.Topic.PointsEvents {
		t.Errorf("topic = %q, want %q", messages[0].Topic, cfg.Kafka.Topic.PointsEvents)
	}
	if messages[0].Status != model.OutboxStatusPending {
		t.Errorf("status = %q, want PENDING", messages[0].Status)
	}
}
