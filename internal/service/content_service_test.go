package service

import (
	"context"
	"errors"
	"testing"

	"socioportal/internal/model"
	"socioportal/internal/repository"
	"socioportal/pkg/dates"
)

func TestCommentRequiresVerifiedMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	verified := seedMember(t, db, model.MemberStatusVerified)
	pending := seedMember(t, db, model.MemberStatusPending)
	ctx := context.Background()

	announcement := &model.Announcement{
		Title:       "Nueva fecha confirmada",
		Content:     "Este sábado en el local.",
		PublishDate: dates.Today(),
	}
	if err := svc.CreateAnnouncement(ctx, announcement); err != nil {
		t.Fatalf("create announcement: %v", err)
	}

	if _, err := svc.AddComment(ctx, announcement.ID, pending.ID, "¡Allí estaré!", dates.Today()); !errors.Is(err, repository.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for pending member, got %v", err)
	}

	comment, err := svc.AddComment(ctx, announcement.ID, verified.ID, "¡Allí estaré!", dates.Today())
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.Author != verified.Name {
		t.Errorf("author snapshot = %q, want %q", comment.Author, verified.Name)
	}

	got, err := svc.GetAnnouncement(ctx, announcement.ID)
	if err != nil {
		t.Fatalf("get announcement: %v", err)
	}
	if len(got.Comments) != 1 {
		t.Errorf("announcement has %d comments, want 1", len(got.Comments))
	}

	if _, err := svc.AddComment(ctx, 9999, verified.ID, "?", dates.Today()); !errors.Is(err, repository.ErrAnnouncementNotFound) {
		t.Errorf("expected ErrAnnouncementNotFound, got %v", err)
	}
}

func TestDJRosterOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	ctx := context.Background()

	names := []string{"DJ Uno", "DJ Dos", "DJ Tres"}
	for _, name := range names {
		if err := svc.CreateDJ(ctx, &model.DJ{Name: name}); err != nil {
			t.Fatalf("create dj %q: %v", name, err)
		}
	}

	listNames := func() []string {
		djs, err := svc.ListDJs(ctx)
		if err != nil {
			t.Fatalf("list djs: %v", err)
		}
		out := make([]string, len(djs))
		for i, dj := range djs {
			out[i] = dj.Name
		}
		return out
	}

	got := listNames()
	for i, want := range names {
		if got[i] != want {
			t.Fatalf("initial order = %v, want %v", got, names)
		}
	}

	djs, _ := svc.ListDJs(ctx)

	// Move the last entry up one slot.
	if err := svc.ReorderDJ(ctx, djs[2].ID, "up"); err != nil {
		t.Fatalf("reorder up: %v", err)
	}
	got = listNames()
	if got[1] != "DJ Tres" || got[2] != "DJ Dos" {
		t.Errorf("order after up = %v", got)
	}

	// Moving the top entry up is a no-op.
	if err := svc.ReorderDJ(ctx, djs[0].ID, "up"); err != nil {
		t.Fatalf("reorder top up: %v", err)
	}
	if got = listNames(); got[0] != "DJ Uno" {
		t.Errorf("order after no-op = %v", got)
	}

	if err := svc.ReorderDJ(ctx, 9999, "up"); !errors.Is(err, repository.ErrDJNotFound) {
		t.Errorf("expected ErrDJNotFound, got %v", err)
	}
}

func TestRadioConfigRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)
	ctx := context.Background()

	// Before any save the default row comes back.
	cfg, err := svc.GetRadioConfig(ctx)
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if cfg.ID != 1 || cfg.StreamURL != "" {
		t.Errorf("default config = %+v", cfg)
	}

	if err := svc.UpdateRadioConfig(ctx, &model.RadioConfig{
		StreamURL: "https://stream.example.com/live",
		InfoText:  "En directo desde el local",
		IsActive:  true,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	cfg, err = svc.GetRadioConfig(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.StreamURL != "https://stream.example.com/live" || !cfg.IsActive {
		t.Errorf("config after save = %+v", cfg)
	}
}
