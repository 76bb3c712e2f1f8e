package job

import (
	"context"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReservationExpiryJob releases PENDING reservations whose hold window
// has passed, returning their stock to the catalog.
type ReservationExpiryJob struct {
	reservationService *service.ReservationService
	stopCh             chan struct{}
	interval           time.Duration
	batchSize          int
}

func NewReservationExpiryJob(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ReservationExpiryJob {
	return &ReservationExpiryJob{
		reservationService: service.NewReservationService(db, redisClient, cfg),
		stopCh:             make(chan struct{}),
		interval:           time.Minute,
		batchSize:          100,
	}
}

func (j *ReservationExpiryJob) Start(ctx context.Context) {
	log.Info().Msg("reservation expiry job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reservation expiry job exiting")
			return
		case <-j.stopCh:
			log.Info().Msg("reservation expiry job stopped")
			return
		case <-ticker.C:
			j.expireOverdue(ctx)
		}
	}
}

func (j *ReservationExpiryJob) Stop() {
	close(j.stopCh)
}

func (j *ReservationExpiryJob) expireOverdue(ctx context.Context) {
	expired, err := j.reservationService.ExpireOverdue(ctx, j.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("expiry: query overdue reservations failed")
		return
	}
	if expired > 0 {
		log.Info().Int("expired", expired).Msg("overdue reservations released")
	}
}
