package service

import (
	"context"

	"socioportal/internal/model"
	"socioportal/internal/repository"

	"gorm.io/gorm"
)

// ContentService covers the portal's editorial surface: announcements and
// their comments, the DJ roster and the radio configuration.
type ContentService struct {
	db               *gorm.DB
	announcementRepo *repository.AnnouncementRepository
	djRepo           *repository.DJRepository
	radioRepo        *repository.RadioRepository
	memberRepo       *repository.MemberRepository
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{
		db:               db,
		announcementRepo: repository.NewAnnouncementRepository(db),
		djRepo:           repository.NewDJRepository(db),
		radioRepo:        repository.NewRadioRepository(db),
		memberRepo:       repository.NewMemberRepository(db),
	}
}

func (s *ContentService) CreateAnnouncement(ctx context.Context, announcement *model.Announcement) error {
	return s.announcementRepo.Create(ctx, announcement)
}

func (s *ContentService) ListAnnouncements(ctx context.Context) ([]*model.Announcement, error) {
	return s.announcementRepo.List(ctx)
}

func (s *ContentService) GetAnnouncement(ctx context.Context, id int64) (*model.Announcement, error) {
	return s.announcementRepo.GetByID(ctx, id)
}

func (s *ContentService) UpdateAnnouncement(ctx context.Context, announcement *model.Announcement) error {
	return s.announcementRepo.Update(ctx, announcement)
}

func (s *ContentService) DeleteAnnouncement(ctx context.Context, id int64) error {
	return s.announcementRepo.Delete(ctx, id)
}

// AddComment posts a comment on an announcement. Commenting is gated on
// verification, so the author must be a VERIFIED socio.
func (s *ContentService) AddComment(ctx context.Context, announcementID, authorID int64, text, date string) (*model.Comment, error) {
	if _, err := s.announcementRepo.GetByID(ctx, announcementID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, nil, authorID)
	if err != nil {
		return nil, err
	}
	if !member.Eligible() {
		return nil, repository.ErrNotEligible
	}

	comment := &model.Comment{
		AnnouncementID: announcementID,
		AuthorID:       member.ID,
		Author:         member.Name,
		Text:           text,
		CommentDate:    date,
	}
	if err := s.announcementRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ContentService) CreateDJ(ctx context.Context, dj *model.DJ) error {
	max, err := s.djRepo.MaxDisplayOrder(ctx)
	if err != nil {
		return err
	}
	dj.DisplayOrder = max + 1
	return s.djRepo.Create(ctx, dj)
}

func (s *ContentService) ListDJs(ctx context.Context) ([]*model.DJ, error) {
	return s.djRepo.List(ctx)
}

func (s *ContentService) GetDJ(ctx context.Context, id int64) (*model.DJ, error) {
	return s.djRepo.GetByID(ctx, id)
}

func (s *ContentService) UpdateDJ(ctx context.Context, dj *model.DJ) error {
	return s.djRepo.Update(ctx, dj)
}

func (s *ContentService) DeleteDJ(ctx context.Context, id int64) error {
	return s.djRepo.Delete(ctx, id)
}

// ReorderDJ moves a roster entry one position up or down by swapping
// display orders with its neighbor. At either end the move is a no-op.
func (s *ContentService) ReorderDJ(ctx context.Context, djID int64, direction string) error {
	djs, err := s.djRepo.List(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, dj := range djs {
		if dj.ID == djID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return repository.ErrDJNotFound
	}

	var neighbor int
	switch {
	case direction == "up" && idx > 0:
		neighbor = idx - 1
	case direction == "down" && idx < len(djs)-1:
		neighbor = idx + 1
	default:
		return nil
	}

	return s.djRepo.SwapDisplayOrder(ctx, djs[idx], djs[neighbor])
}

func (s *ContentService) GetRadioConfig(ctx context.Context) (*model.RadioConfig, error) {
	return s.radioRepo.Get(ctx)
}

func (s *ContentService) UpdateRadioConfig(ctx context.Context, cfg *model.RadioConfig) error {
	return s.radioRepo.Save(ctx, cfg)
}
