package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/repairshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const keyPrefix = "shop:lock:"

// RedisNumberLocker serializes document number allocation across instances
// with a Redis lock. It never blocks a request on Redis: if the lock cannot be
// obtained within the retry window the caller proceeds unlocked and relies on
// the unique index and its own retries.
type RedisNumberLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisNumberLocker creates a locker whose locks expire after ttl. Acquire
// retries for up to ttl before giving up.
func NewRedisNumberLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisNumberLocker {
	return &RedisNumberLocker{
		client: redislock.New(client),
		ttl:    ttl,
		wait:   ttl,
		logger: logger.Named("number_lock"),
	}
}

// Acquire takes the lock for key. The returned release function is always
// non-nil and safe to call once.
func (l *RedisNumberLocker) Acquire(ctx context.Context, key string) func() {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.ExponentialBackoff(10*time.Millisecond, 200*time.Millisecond), retryCount(l.wait)),
	}

	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, opts)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			l.logger.Warn("could not obtain number lock; proceeding without it", zap.String("key", key))
		} else {
			l.logger.Warn("error obtaining number lock; proceeding without it", zap.String("key", key), zap.Error(err))
		}
		return func() {}
	}

	return func() {
		// the request context may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release number lock", zap.String("key", key), zap.Error(err))
		}
	}
}

// retryCount approximates how many backoff attempts fit in wait
func retryCount(wait time.Duration) int {
	n := int(wait / (100 * time.Millisecond))
	if n < 1 {
		return 1
	}
	return n
}

var _ shared.NumberLocker = (*RedisNumberLocker)(nil)
