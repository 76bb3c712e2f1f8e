package service

import (
	"context"
	"errors"
	"testing"

	"socioportal/internal/model"
	"socioportal/internal/repository"
)

func TestRegisterAndVerifyMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db, testConfig())
	ctx := context.Background()

	member, err := svc.Register(ctx, &RegisterRequest{
		MemberNo: "S900",
		Name:     "Ana",
		Email:    "ana@example.com",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if member.Status != model.MemberStatusPending {
		t.Errorf("status = %q, want PENDING", member.Status)
	}
	if member.Points != 0 {
		t.Errorf("points = %d, want 0", member.Points)
	}
	if member.Eligible() {
		t.Error("a fresh registration must not be eligible")
	}

	// Same socio code or email is refused.
	if _, err := svc.Register(ctx, &RegisterRequest{MemberNo: "S900", Name: "Otro", Email: "otro@example.com"}); !errors.Is(err, repository.ErrDuplicateMember) {
		t.Errorf("expected ErrDuplicateMember for member_no, got %v", err)
	}
	if _, err := svc.Register(ctx, &RegisterRequest{MemberNo: "S901", Name: "Otro", Email: "ana@example.com"}); !errors.Is(err, repository.ErrDuplicateMember) {
		t.Errorf("expected ErrDuplicateMember for email, got %v", err)
	}

	verified, err := svc.Verify(ctx, member.ID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !verified.Eligible() {
		t.Error("verified socio must be eligible")
	}

	// Verifying twice is a rejected no-op.
	if _, err := svc.Verify(ctx, member.ID); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on double verify, got %v", err)
	}
}

func TestMemberProfile(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	memberSvc := NewMemberService(db, cfg)
	reservationSvc := NewReservationService(db, rdb, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Camiseta", "M", 5)
	ctx := context.Background()

	if _, err := memberSvc.ManualAward(ctx, member.ID, 40, "Participación activa en foro"); err != nil {
		t.Fatalf("manual award: %v", err)
	}
	if _, err := reservationSvc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "M",
		Quantity:  1,
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	profile, err := memberSvc.GetProfile(ctx, member.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Member.Points != 40 {
		t.Errorf("profile points = %d, want 40", profile.Member.Points)
	}
	if len(profile.PointsHistory) != 1 {
		t.Errorf("points history = %d entries, want 1", len(profile.PointsHistory))
	}
	if len(profile.Reservations) != 1 {
		t.Errorf("reservations = %d, want 1", len(profile.Reservations))
	}
}

func TestDeleteMemberCascade(t *testing.T) {
	db := newTestDB(t)
	rdb := newTestRedis(t)
	cfg := testConfig()
	memberSvc := NewMemberService(db, cfg)
	reservationSvc := NewReservationService(db, rdb, cfg)
	redemptionSvc := NewRedemptionService(db, rdb, cfg)
	member := seedMember(t, db, model.MemberStatusVerified)
	product := seedProduct(t, db, "Camiseta", "M", 5)
	prize := seedPrize(t, db, "Entrada gratis", 100, 10)
	ctx := context.Background()

	if _, err := memberSvc.ManualAward(ctx, member.ID, 200, "seed"); err != nil {
		t.Fatalf("seed points: %v", err)
	}
	if _, err := reservationSvc.Create(ctx, &CreateReservationRequest{
		MemberID:  member.ID,
		ProductID: product.ID,
		Size:      "M",
		Quantity:  2,
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := redemptionSvc.Redeem(ctx, member.ID, prize.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if got := variantStock(t, db, product.ID, "M"); got != 3 {
		t.Fatalf("stock before delete = %d, want 3", got)
	}

	if err := memberSvc.Delete(ctx, member.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Held stock comes back on both sides.
	if got := variantStock(t, db, product.ID, "M"); got != 5 {
		t.Errorf("product stock = %d, want 5 restored", got)
	}
	updatedPrize, err := repository.NewPrizeRepository(db).GetByID(ctx, nil, prize.ID)
	if err != nil {
		t.Fatalf("get prize: %v", err)
	}
	if updatedPrize.Stock != 10 {
		t.Errorf("prize stock = %d, want 10 restored", updatedPrize.Stock)
	}

	// Member and ledger are gone.
	if _, err := memberSvc.Get(ctx, member.ID); !errors.Is(err, repository.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
	var entryCount int64
	if err := db.Model(&model.PointsEntry{}).Where("member_id = ?", member.ID).Count(&entryCount).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entryCount != 0 {
		t.Errorf("ledger entries left = %d, want 0", entryCount)
	}

	// Deleting again reports not found.
	if err := memberSvc.Delete(ctx, member.ID); !errors.Is(err, repository.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound on second delete, got %v", err)
	}
}
