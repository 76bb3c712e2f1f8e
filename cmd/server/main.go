package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socioportal/internal/config"
	"socioportal/internal/handler"
	"socioportal/internal/infrastructure/cache"
	"socioportal/internal/infrastructure/database"
	"socioportal/internal/infrastructure/mq"
	"socioportal/internal/job"
	"socioportal/pkg/idgen"
	"socioportal/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load("config/config.yaml")

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	idgen.Init(1)

	db := database.InitMySQL(&cfg.MySQL)

	redisClient := cache.InitRedis(&cfg.Redis)

	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	accrualJob := job.NewSeniorityAccrualJob(db, cfg)
	go accrualJob.Start(ctx)

	expiryJob := job.NewReservationExpiryJob(db, redisClient, cfg)
	go expiryJob.Start(ctx)

	router := handler.SetupRouter(db, redisClient, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
