package ratelimit

import (
	"github.com/mekadomus/aquaflow/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// NewFromConfig builds the sweep limiter, or nil when redis is not
// configured.
func NewFromConfig(cfg config.Config) *SweepLimiter {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return NewSweepLimiter(client, cfg)
}

var Module = fx.Module("rate.limit",
	fx.Provide(NewFromConfig),
)
