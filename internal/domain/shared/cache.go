package shared

import (
	"context"
	"time"
)

// Cache is a key/value store used purely as an optimization.
// Implementations are fail-open: Get reports a miss on any failure and the
// mutating methods log and swallow errors. Ping is the only method that
// surfaces connectivity problems, for health checks.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Ping(ctx context.Context) error
}
