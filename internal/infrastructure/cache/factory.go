package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreFactory creates the process-wide Store based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis-backed store when Redis is configured and
// reachable, otherwise an in-memory store. The returned client is nil for the
// in-memory store; callers share it with the session blacklist.
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, *redis.Client, error) {
	if !f.redisConfig.Enabled() {
		f.logger.Info("redis not configured, using in-memory cache")
		return NewInMemoryStore(time.Minute), nil, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using redis cache", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisStore(client), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required but unavailable: %w", err)
	}
	f.logger.Warn("redis unavailable, falling back to in-memory cache; sessions and import previews will not be shared between instances",
		zap.Error(err),
	)
	return NewInMemoryStore(time.Minute), nil, nil
}
