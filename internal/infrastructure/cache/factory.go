package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Store is a cache that owns releasable resources
type Store interface {
	shared.Cache
	io.Closer
}

// Factory builds the process-wide cache
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(config.RedisConfig, ...RedisCacheOption) (*RedisCache, error)
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the caches it creates
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to an
// in-memory cache (the default) or fails startup.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a factory for cfg
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: !cfg.Required,
		connect:               NewRedisCache,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when reachable, otherwise an in-memory cache
// if fallback is allowed.
func (f *Factory) Create() (Store, error) {
	c, err := f.connect(f.redisConfig, WithCacheLogger(f.logger.Named("cache")))
	if err == nil {
		f.logger.Info("Using Redis cache", zap.String("key_prefix", f.redisConfig.KeyPrefix))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Cached entries will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryCache(), nil
}

// ErrNotRedis is reported by the pinger of a cache that is not Redis-backed
var ErrNotRedis = errors.New("cache is not backed by redis")

// Pinger reports reachability of a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger returns c itself when it is a Redis cache. For any other cache,
// including the in-memory fallback, the returned pinger always fails with
// ErrNotRedis.
func RedisPinger(c shared.Cache) Pinger {
	if rc, ok := c.(*RedisCache); ok && rc != nil {
		return rc
	}
	return notRedis{}
}

type notRedis struct{}

func (notRedis) Ping(context.Context) error { return ErrNotRedis }
