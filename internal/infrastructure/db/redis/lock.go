package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "auth:session_sweep:lock"

// SweepLock is a best-effort leader lock so only one instance runs the
// expired-session sweep per tick. The TTL bounds how long a crashed holder
// can block the next sweep.
type SweepLock struct {
	client *redis.Client
}

// NewSweepLock creates a SweepLock wrapping the given Redis client.
func NewSweepLock(client *redis.Client) *SweepLock {
	return &SweepLock{client: client}
}

// Acquire attempts to take the lock for ttl. Returns false when another
// instance already holds it.
func (l *SweepLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, sweepLockKey, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sweep lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock early. Safe to call when the lock already expired.
func (l *SweepLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, sweepLockKey).Err(); err != nil {
		return fmt.Errorf("release sweep lock: %w", err)
	}
	return nil
}
