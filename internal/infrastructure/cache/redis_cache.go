package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultScanBatchSize    = 100
	defaultOperationTimeout = 500 * time.Millisecond
	connectTimeout          = 5 * time.Second

	// prefix deletes walk the keyspace in several round trips and get this
	// many operation timeouts
	prefixDeleteBudget = 4
)

// RedisCache implements shared.Cache on Redis. Every failure is logged and
// absorbed so that a degraded cache never fails a request.
type RedisCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	opTimeout  time.Duration
	logger     *zap.Logger
}

// RedisCacheOption configures a RedisCache
type RedisCacheOption func(*RedisCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

// WithKeyPrefix namespaces every key, e.g. "nordvest:"
func WithKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.keyPrefix = prefix
	}
}

// WithOperationTimeout bounds each individual cache call
func WithOperationTimeout(d time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		c.opTimeout = d
	}
}

// NewRedisClient builds a client from cfg, preferring cfg.URL when set
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts.ContextTimeoutEnabled = true
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:                  cfg.Addr(),
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ContextTimeoutEnabled: true,
	}), nil
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg config.RedisConfig, opts ...RedisCacheOption) (*RedisCache, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisCacheWithClient(client, append([]RedisCacheOption{WithKeyPrefix(cfg.KeyPrefix)}, opts...)...)
	c.ownsClient = true
	return c, nil
}

// NewRedisCacheWithClient wraps an existing client. The caller keeps ownership of it.
func NewRedisCacheWithClient(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client:    client,
		opTimeout: defaultOperationTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

func (c *RedisCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

// Get returns the cached bytes for key. Misses and failures both report false.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Cache get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

// Set stores value under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.logger.Debug("Cached value", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Delete removes the given keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("Cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DeleteByPrefix removes every key starting with prefix. SCAN is used instead
// of KEYS so that large keyspaces do not block the server.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, prefixDeleteBudget*c.opTimeout)
	defer cancel()

	pattern := escapeGlob(c.key(prefix)) + "*"
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Warn("Cache scan failed", zap.String("prefix", prefix), zap.Error(err))
			return
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Warn("Cache prefix delete failed", zap.String("prefix", prefix), zap.Error(err))
				return
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("Invalidated cache prefix", zap.String("prefix", prefix), zap.Int64("deleted_count", deleted))
}

// Ping reports whether Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client if this cache created it
func (c *RedisCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}

var _ shared.Cache = (*RedisCache)(nil)
