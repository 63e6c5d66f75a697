// Package ratelimit holds the advisory redis lock that keeps sweep
// invocations from piling up across replicas.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mekadomus/aquaflow/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const sweepLockKey = "alerts:sweep:lock"

// Deletes the lock only when the caller still owns it, so a sweep that
// outlives its TTL cannot release a successor's lock.
const sweepUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// SweepLimiter is advisory: losing redis degrades to the metadata cooldown
// alone, it never blocks a sweep.
type SweepLimiter struct {
	client *redis.Client
	unlock *redis.Script
	ttl    time.Duration
}

func NewSweepLimiter(client *redis.Client, cfg config.Config) *SweepLimiter {
	if client == nil {
		return nil
	}
	return &SweepLimiter{
		client: client,
		unlock: redis.NewScript(sweepUnlockScript),
		ttl:    cfg.Alerts.SweepCooldown,
	}
}

func (l *SweepLimiter) Enabled() bool {
	return l != nil && l.client != nil
}

// TryLock claims the sweep lock for one cooldown period. The returned token
// proves ownership and must be passed back to Release.
func (l *SweepLimiter) TryLock(ctx context.Context) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	if l.ttl <= 0 {
		return "", false, errors.New("sweep lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, sweepLockKey, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *SweepLimiter) Release(ctx context.Context, token string) error {
	if !l.Enabled() || token == "" {
		return nil
	}
	return l.unlock.Run(ctx, l.client, []string{sweepLockKey}, token).Err()
}
