package job

import (
	"context"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/repository"
	"socioportal/internal/service"
	"socioportal/pkg/dates"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SeniorityAccrualReason is the fixed reason string of the accrual grant.
// Together with the entry date it forms the idempotence marker, so it
// must never change between runs.
const SeniorityAccrualReason = "Antigüedad semanal"

// SeniorityAccrualJob grants every verified socio the configured seniority
// points once per calendar day. A (date, reason) marker in the ledger
// itself keeps repeated runs within the same day from granting twice.
type SeniorityAccrualJob struct {
	db         *gorm.DB
	cfg        *config.Config
	ledger     *service.LedgerService
	memberRepo *repository.MemberRepository
	entryRepo  *repository.PointsEntryRepository
	stopCh     chan struct{}
	interval   time.Duration
}

func NewSeniorityAccrualJob(db *gorm.DB, cfg *config.Config) *SeniorityAccrualJob {
	return &SeniorityAccrualJob{
		db:         db,
		cfg:        cfg,
		ledger:     service.NewLedgerService(db, cfg),
		memberRepo: repository.NewMemberRepository(db),
		entryRepo:  repository.NewPointsEntryRepository(db),
		stopCh:     make(chan struct{}),
		interval:   time.Hour,
	}
}

func (j *SeniorityAccrualJob) Start(ctx context.Context) {
	log.Info().Msg("seniority accrual job started")

	// Run once at startup so a restart never skips the day.
	j.RunOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("seniority accrual job exiting")
			return
		case <-j.stopCh:
			log.Info().Msg("seniority accrual job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *SeniorityAccrualJob) Stop() {
	close(j.stopCh)
}

// RunOnce performs a single accrual pass over all verified socios and
// returns how many grants were made. Members already holding today's
// marker entry are skipped.
func (j *SeniorityAccrualJob) RunOnce(ctx context.Context) int {
	today := dates.Today()

	members, err := j.memberRepo.ListVerifiedSocios(ctx)
	if err != nil {
		log.Error().Err(err).Msg("accrual: list verified socios failed")
		return 0
	}

	granted := 0
	for _, member := range members {
		done, err := j.entryRepo.HasEntry(ctx, member.ID, today, SeniorityAccrualReason)
		if err != nil {
			log.Error().Err(err).Int64("member_id", member.ID).Msg("accrual: marker check failed")
			continue
		}
		if done {
			continue
		}

		if _, err := j.ledger.Award(ctx, nil, member.ID, j.cfg.Business.SeniorityPoints, SeniorityAccrualReason, ""); err != nil {
			log.Error().Err(err).Int64("member_id", member.ID).Msg("accrual: award failed")
			continue
		}
		granted++
	}

	if granted > 0 {
		log.Info().
			Str("date", today).
			Int("granted", granted).
			Int64("points", j.cfg.Business.SeniorityPoints).
			Msg("seniority accrual pass completed")
	}

	return granted
}
