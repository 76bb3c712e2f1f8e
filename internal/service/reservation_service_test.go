package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socioportal/internal/model"
	"socioportal/internal/repository"
)

func TestReservationCreateTakesStock(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewReservationService(db, rdb, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Camiseta 10 aniversario", "M", 5)
	ctx := context.Background()

	reservation, err := svc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "M",
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if reservation.Status != model.ReservationStatusPending {
		t.Errorf("status = %q, want PENDING", reservation.Status)
	}
	if reservation.PointsAwarded != nil {
		t.Error("PointsAwarded must be nil while PENDING")
	}
	if got := variantStock(t, db, product.ID, "M"); got != 4 {
		t.Errorf("stock = %d, want 4", got)
	}
}

func TestReservationRequiresVerifiedSocio(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewReservationService(db, rdb, testConfig())
	member := seedMember(t, db, model.MemberStatusPending)
	product := seedProduct(t, db, "Sudadera", "L", 3)

	_, err := svc.Create(context.Background(), &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "L",
		Quantity:  1,
	})
	if !errors.Is(err, repository.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
	if got := variantStock(t, db, product.ID, "L"); got != 3 {
		t.Errorf("stock = %d, want 3 untouched", got)
	}
}

func TestReservationInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewReservationService(db, rdb, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Gorra", "U", 2)

	_, err := svc.Create(context.Background(), &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "U",
		Quantity:  5,
	})
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := variantStock(t, db, product.ID, "U"); got != 2 {
		t.Errorf("stock = %d, want 2 untouched", got)
	}
}

func TestConfirmSaleAwardsPointsOnce(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	svc := NewReservationService(db, rdb, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Camiseta 10 aniversario", "M", 5)
	ctx := context.Background()

	reservation, err := svc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "M",
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := svc.ConfirmSale(ctx, reservation.ReservationNo, 270)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.ReservationStatusConfirmed {
		t.Errorf("status = %q, want CONFIRMED", confirmed.Status)
	}
	if confirmed.PointsAwarded == nil || *confirmed.PointsAwarded != 270 {
		t.Errorf("PointsAwarded = %v, want 270", confirmed.PointsAwarded)
	}
	if got := memberPoints(t, db, member.ID); got != 270 {
		t.Errorf("balance = %d, want 270", got)
	}

	// Ledger entry carries the confirmation reason with the product name
	// snapshotted at creation.
	ledger := NewLedgerService(db, cfg)
	entries, _, err := ledger.History(ctx, member.ID, 1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].Reason != "Venta confirmada: Camiseta 10 aniversario" {
		t.Errorf("unexpected ledger entries: %+v", entries)
	}

	// Second confirmation must not award again, whatever points it asks for.
	_, err = svc.ConfirmSale(ctx, reservation.ReservationNo, 500)
	if !errors.Is(err, repository.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
	if got := memberPoints(t, db, member.ID); got != 270 {
		t.Errorf("balance after double confirm = %d, want 270", got)
	}

	// Confirmed reservations keep their stock.
	if got := variantStock(t, db, product.ID, "M"); got != 4 {
		t.Errorf("stock = %d, want 4", got)
	}
}

func TestCancelReservationRestoresStock(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewReservationService(db, rdb, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Vinilo recopilatorio", "U", 10)
	ctx := context.Background()

	reservation, err := svc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "U",
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := variantStock(t, db, product.ID, "U"); got != 8 {
		t.Fatalf("stock = %d, want 8", got)
	}

	if err := svc.Cancel(ctx, reservation.ReservationNo); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := variantStock(t, db, product.ID, "U"); got != 10 {
		t.Errorf("stock = %d, want 10 restored", got)
	}

	// Canceled is terminal: confirming afterwards must fail and award
	// nothing.
	if _, err := svc.ConfirmSale(ctx, reservation.ReservationNo, 100); err == nil {
		t.Fatal("expected confirm after cancel to fail")
	}
	if got := memberPoints(t, db, member.ID); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestExpireOverdueReservations(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	svc := NewReservationService(db, rdb, testConfig())
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Camiseta", "S", 5)
	ctx := context.Background()

	reservation, err := svc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "S",
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Not yet overdue, nothing to expire.
	expired, err := svc.ExpireOverdue(ctx, 100)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expired %d reservations, want 0", expired)
	}

	// Push the hold window into the past.
	err = db.Model(&model.Reservation{}).
		Where("reservation_no = ?", reservation.ReservationNo).
		Update("expires_at", time.Now().Add(-time.Hour)).Error
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	expired, err = svc.ExpireOverdue(ctx, 100)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired %d reservations, want 1", expired)
	}

	got, err := svc.Get(ctx, reservation.ReservationNo)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.ReservationStatusExpired {
		t.Errorf("status = %q, want EXPIRED", got.Status)
	}
	if stock := variantStock(t, db, product.ID, "S"); stock != 5 {
		t.Errorf("stock = %d, want 5 restored", stock)
	}
}
