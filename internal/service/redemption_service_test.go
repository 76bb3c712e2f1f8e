package service

import (
	"context"
	"errors"
	"testing"

	"socioportal/internal/model"
	"socioportal/internal/repository"
)

func TestRedeemPrize(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewRedemptionService(db, rdb, cfg)
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	prize := seedPrize(t, db, "Entrada gratis", 150, 20)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 280, "seed", ""); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	redemption, err := svc.Redeem(ctx, member.ID, prize.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if redemption.Status != model.RedemptionStatusPending {
		t.Errorf("status = %q, want PENDING", redemption.Status)
	}
	if redemption.PointsCost != 150 {
		t.Errorf("PointsCost = %d, want 150", redemption.PointsCost)
	}
	if got := memberPoints(t, db, member.ID); got != 130 {
		t.Errorf("balance = %d, want 130", got)
	}

	updated, err := repository.NewPrizeRepository(db).GetByID(ctx, nil, prize.ID)
	if err != nil {
		t.Fatalf("get prize: %v", err)
	}
	if updated.Stock != 19 {
		t.Errorf("prize stock = %d, want 19", updated.Stock)
	}

	entries, _, err := ledger.History(ctx, member.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if entries[0].Reason != "Canje: Entrada gratis" || entries[0].Points != -150 {
		t.Errorf("unexpected ledger head: %+v", entries[0])
	}
}

func TestRedeemExactBalance(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewRedemptionService(db, rdb, cfg)
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	prize := seedPrize(t, db, "Tote bag", 100, 5)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 100, "seed", ""); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	// Balance exactly equal to the cost must be accepted.
	if _, err := svc.Redeem(ctx, member.ID, prize.ID); err != nil {
		t.Fatalf("redeem at exact balance: %v", err)
	}
	if got := memberPoints(t, db, member.ID); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestRedeemRejections(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewRedemptionService(db, rdb, cfg)
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 99, "seed", ""); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	poor := seedPrize(t, db, "Camiseta premium", 100, 5)
	if _, err := svc.Redeem(ctx, member.ID, poor.ID); !errors.Is(err, repository.ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}

	inactive := seedPrize(t, db, "Descatalogado", 10, 5)
	if err := db.Model(&model.Prize{}).Where("id = ?", inactive.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate prize: %v", err)
	}
	if _, err := svc.Redeem(ctx, member.ID, inactive.ID); !errors.Is(err, repository.ErrPrizeInactive) {
		t.Errorf("expected ErrPrizeInactive, got %v", err)
	}

	empty := seedPrize(t, db, "Agotado", 10, 0)
	if _, err := svc.Redeem(ctx, member.ID, empty.ID); !errors.Is(err, repository.ErrPrizeOutOfStock) {
		t.Errorf("expected ErrPrizeOutOfStock, got %v", err)
	}

	unverified := seedMember(t, db, model.MemberStatusPending)
	cheap := seedPrize(t, db, "Pegatinas", 1, 5)
	if _, err := svc.Redeem(ctx, unverified.ID, cheap.ID); !errors.Is(err, repository.ErrNotEligible) {
		t.Errorf("expected ErrNotEligible, got %v", err)
	}

	// No rejected attempt may touch the balance.
	if got := memberPoints(t, db, member.ID); got != 99 {
		t.Errorf("balance = %d, want 99", got)
	}
}

func TestCancelRedemptionRefundsOnce(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewRedemptionService(db, rdb, cfg)
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	prize := seedPrize(t, db, "Entrada gratis", 150, 20)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 280, "seed", ""); err != nil {
		t.Fatalf("seed points: %v", err)
	}
	redemption, err := svc.Redeem(ctx, member.ID, prize.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	canceled, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, model.RedemptionStatusCanceled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != model.RedemptionStatusCanceled {
		t.Errorf("status = %q, want CANCELED", canceled.Status)
	}
	if got := memberPoints(t, db, member.ID); got != 280 {
		t.Errorf("balance = %d, want 280 refunded", got)
	}

	updated, err := repository.NewPrizeRepository(db).GetByID(ctx, nil, prize.ID)
	if err != nil {
		t.Fatalf("get prize: %v", err)
	}
	if updated.Stock != 20 {
		t.Errorf("prize stock = %d, want 20 restored", updated.Stock)
	}

	// The refund leaves both movements in the ledger, it never erases the
	// redemption entry.
	entries, total, err := ledger.History(ctx, member.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if total != 3 {
		t.Fatalf("ledger has %d entries, want 3", total)
	}
	if entries[0].Reason != "Devolución por canje cancelado: Entrada gratis" || entries[0].Points != 150 {
		t.Errorf("unexpected refund entry: %+v", entries[0])
	}

	// Cancel again: rejected, no second refund.
	if _, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, model.RedemptionStatusCanceled); !errors.Is(err, repository.ErrAlreadyCanceled) {
		t.Fatalf("expected ErrAlreadyCanceled, got %v", err)
	}
	if got := memberPoints(t, db, member.ID); got != 280 {
		t.Errorf("balance after double cancel = %d, want 280", got)
	}

	// Canceled is terminal.
	if _, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, model.RedemptionStatusDelivered); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDeliverRedemption(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewRedemptionService(db, rdb, cfg)
	ledger := NewLedgerService(db, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	prize := seedPrize(t, db, "Poster firmado", 50, 3)
	ctx := context.Background()

	if _, err := ledger.Award(ctx, nil, member.ID, 60, "seed", ""); err != nil {
		t.Fatalf("seed points: %v", err)
	}
	redemption, err := svc.Redeem(ctx, member.ID, prize.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	delivered, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, model.RedemptionStatusDelivered)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.Status != model.RedemptionStatusDelivered {
		t.Errorf("status = %q, want DELIVERED", delivered.Status)
	}

	// Delivery moves no points and no stock.
	if got := memberPoints(t, db, member.ID); got != 10 {
		t.Errorf("balance = %d, want 10", got)
	}

	// Delivered is terminal, no late cancellation and no refund.
	if _, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, model.RedemptionStatusCanceled); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// An off-machine target status is rejected up front.
	if _, err := svc.UpdateStatus(ctx, redemption.RedemptionNo, "SHIPPED"); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}
