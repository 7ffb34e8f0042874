package cache

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrRedisRequired is returned when the event configuration demands Redis
// but no client is available
var ErrRedisRequired = errors.New("redis is required for event idempotency but is not configured")

// NewIdempotencyStore picks the idempotency store for the event handlers:
// Redis when a client is available, otherwise the in-memory store unless
// cfg.RequireRedis forbids the fallback.
func NewIdempotencyStore(client *redis.Client, cfg config.EventConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if client != nil {
		logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	}
	if cfg.RequireRedis {
		return nil, ErrRedisRequired
	}
	logger.Warn("Redis not configured, using in-memory idempotency store; duplicate handling is per instance")
	return NewInMemoryIdempotencyStore(0), nil
}
