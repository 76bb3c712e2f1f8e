package service

import (
	"context"

	"socioportal/internal/config"
	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MemberService covers the member directory: registration, verification,
// admin grants and removal. Balance changes still go through the ledger.
type MemberService struct {
	db              *gorm.DB
	cfg             *config.Config
	ledger          *LedgerService
	memberRepo      *repository.MemberRepository
	entryRepo       *repository.PointsEntryRepository
	eventRepo       *repository.EventRepository
	reservationRepo *repository.ReservationRepository
	redemptionRepo  *repository.RedemptionRepository
	productRepo     *repository.ProductRepository
	prizeRepo       *repository.PrizeRepository
}

func NewMemberService(db *gorm.DB, cfg *config.Config) *MemberService {
	return &MemberService{
		db:              db,
		cfg:             cfg,
		ledger:          NewLedgerService(db, cfg),
		memberRepo:      repository.NewMemberRepository(db),
		entryRepo:       repository.NewPointsEntryRepository(db),
		eventRepo:       repository.NewEventRepository(db),
		reservationRepo: repository.NewReservationRepository(db),
		redemptionRepo:  repository.NewRedemptionRepository(db),
		productRepo:     repository.NewProductRepository(db),
		prizeRepo:       repository.NewPrizeRepository(db),
	}
}

type RegisterRequest struct {
	MemberNo string `json:"member_no" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

// Register creates a new member: role SOCIO, status PENDING, zero points,
// empty ledger. Socio code and email must both be unused.
func (s *MemberService) Register(ctx context.Context, req *RegisterRequest) (*model.Member, error) {
	exists, err := s.memberRepo.ExistsByIdentity(ctx, req.MemberNo, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateMember
	}

	member := &model.Member{
		MemberNo:     req.MemberNo,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         model.RoleSocio,
		Status:       model.MemberStatusPending,
		RegisteredAt: dates.Today(),
	}
	if err := s.memberRepo.Create(ctx, nil, member); err != nil {
		return nil, err
	}

	log.Info().Str("member_no", member.MemberNo).Msg("member registered")
	return member, nil
}

// Verify approves a PENDING member. Verification unlocks commenting,
// reservations, redemptions and the seniority accrual.
func (s *MemberService) Verify(ctx context.Context, memberID int64) (*model.Member, error) {
	if err := s.memberRepo.MarkVerified(ctx, memberID); err != nil {
		return nil, err
	}
	log.Info().Int64("member_id", memberID).Msg("member verified")
	return s.memberRepo.GetByID(ctx, nil, memberID)
}

func (s *MemberService) Get(ctx context.Context, memberID int64) (*model.Member, error) {
	return s.memberRepo.GetByID(ctx, nil, memberID)
}

func (s *MemberService) List(ctx context.Context, status string) ([]*model.Member, error) {
	return s.memberRepo.List(ctx, status)
}

// Profile is the member record plus the three history views the portal
// profile page renders.
type Profile struct {
	Member        *model.Member            `json:"member"`
	PointsHistory []*model.PointsEntry     `json:"points_history"`
	EventHistory  []*model.EventAttendance `json:"event_history"`
	Reservations  []*model.Reservation     `json:"reservations"`
}

func (s *MemberService) GetProfile(ctx context.Context, memberID int64) (*Profile, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		return nil, err
	}

	entries, _, err := s.entryRepo.ListByMemberID(ctx, memberID, 1, 100)
	if err != nil {
		return nil, err
	}

	attendance, err := s.eventRepo.ListAttendanceByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Member:        member,
		PointsHistory: entries,
		EventHistory:  attendance,
		Reservations:  reservations,
	}, nil
}

// ManualAward is the admin grant (e.g. "Participación activa en foro").
func (s *MemberService) ManualAward(ctx context.Context, memberID, points int64, reason string) (*model.PointsEntry, error) {
	return s.ledger.Award(ctx, nil, memberID, points, reason, "")
}

// Delete removes a member and everything hanging off it, in one
// transaction. PENDING reservations release their stock and PENDING
// redemptions restore prize stock (no refund target remains), then the
// attendance log, the ledger and the member row go. Nothing is left
// orphaned.
func (s *MemberService) Delete(ctx context.Context, memberID int64) error {
	if _, err := s.memberRepo.GetByID(ctx, nil, memberID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pending, err := s.reservationRepo.ListPendingByMemberID(ctx, tx, memberID)
		if err != nil {
			return err
		}
		for _, reservation := range pending {
			if err := s.reservationRepo.UpdateStatus(ctx, tx, reservation.ReservationNo, model.ReservationStatusPending, model.ReservationStatusCanceled); err != nil {
				return err
			}
			if err := s.productRepo.IncrementStock(ctx, tx, reservation.ProductID, reservation.Size, reservation.Quantity); err != nil {
				return err
			}
		}

		redemptions, err := s.redemptionRepo.ListPendingByMemberID(ctx, tx, memberID)
		if err != nil {
			return err
		}
		for _, redemption := range redemptions {
			if err := s.redemptionRepo.UpdateStatus(ctx, tx, redemption.RedemptionNo, model.RedemptionStatusPending, model.RedemptionStatusCanceled); err != nil {
				return err
			}
			if err := s.prizeRepo.IncrementStock(ctx, tx, redemption.PrizeID); err != nil {
				return err
			}
		}

		if err := s.eventRepo.DeleteAttendanceByMemberID(ctx, tx, memberID); err != nil {
			return err
		}
		if err := s.entryRepo.DeleteByMemberID(ctx, tx, memberID); err != nil {
			return err
		}
		return s.memberRepo.Delete(ctx, tx, memberID)
	})
	if err != nil {
		return err
	}

	log.Info().Int64("member_id", memberID).Msg("member removed")
	return nil
}
