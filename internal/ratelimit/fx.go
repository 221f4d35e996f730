package ratelimit

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/config"
	"go.uber.org/zap"

	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(PresetsFromConfig),
	fx.Provide(NewFromConfig),
)

// NewFromConfig picks the shared-redis limiter when an address is configured,
// otherwise the in-process store.
func NewFromConfig(cfg config.Config, clk clock.Clock, log *zap.Logger) Limiter {
	addr := strings.TrimSpace(cfg.RateLimit.RedisAddr)
	if addr == "" {
		log.Named("rate.limit").Info("using in-process rate limit store")
		return NewMemoryLimiter(clk)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RateLimit.RedisPassword),
		DB:       cfg.RateLimit.RedisDB,
	})
	log.Named("rate.limit").Info("using redis rate limit store", zap.String("addr", addr))
	return NewRedisLimiter(client)
}
