package cache

import (
	"context"
	"fmt"
	"time"

	"socioportal/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// InitRedis connects to Redis and verifies the connection.
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("connect redis failed")
	}

	log.Info().Str("addr", client.Options().Addr).Msg("redis connected")
	return client
}
