package job

import (
	"context"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/infrastructure/mq"
	"socioportal/internal/model"
	"socioportal/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OutboxSender drains the transactional outbox into Kafka. Events are
// written in the same transaction as the state change they describe, so
// a crash between commit and publish only delays delivery.
type OutboxSender struct {
	db         *gorm.DB
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	log.Info().Msg("outbox sender started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox sender exiting")
			return
		case <-s.stopCh:
			log.Info().Msg("outbox sender stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("outbox: query pending messages failed")
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			log.Error().Err(updateErr).Int64("id", msg.ID).Msg("outbox: mark sent failed")
			return
		}
		log.Debug().
			Int64("id", msg.ID).
			Str("topic", msg.Topic).
			Str("key", msg.MessageKey).
			Msg("outbox message sent")
		return
	}

	log.Error().Err(err).Int64("id", msg.ID).Msg("outbox: send failed")

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		log.Error().Err(err).Int64("id", msg.ID).Msg("outbox: bump retry count failed")
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			log.Error().Err(err).Int64("id", msg.ID).Msg("outbox: mark failed failed")
		} else {
			log.Warn().Int64("id", msg.ID).Msg("outbox message exceeded max retries")
		}
	}
}
