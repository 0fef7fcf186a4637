// Package readthrough implements cache-aside reads over a shared.Cache.
//
// Reads consult the cache first and fall back to a loader on miss, storing
// the loaded value with a TTL. Loader errors (including not-found) are
// returned unchanged and never cached. Writes invalidate by deleting keys
// and key prefixes; cached values are never patched in place.
package readthrough

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nordvest/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder observes cache effectiveness
type Recorder interface {
	CacheHit(ctx context.Context, resource string)
	CacheMiss(ctx context.Context, resource string)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(context.Context, string)  {}
func (nopRecorder) CacheMiss(context.Context, string) {}

// Loader coordinates cache lookups with the system of record
type Loader struct {
	cache    shared.Cache
	logger   *zap.Logger
	recorder Recorder
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithRecorder sets the hit/miss recorder
func WithRecorder(r Recorder) Option {
	return func(l *Loader) {
		l.recorder = r
	}
}

// New creates a Loader over cache
func New(cache shared.Cache, opts ...Option) *Loader {
	l := &Loader{
		cache:    cache,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the value cached under key, or calls load exactly once on a
// miss and caches its result for ttl.
func Get[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := Peek[T](ctx, l, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	Put(ctx, l, key, v, ttl)
	return v, nil
}

// Peek returns the cached value without falling back to a loader.
// Undecodable entries are deleted and reported as a miss.
func Peek[T any](ctx context.Context, l *Loader, key string) (T, bool) {
	var v T
	resource := resourceOf(key)

	data, ok := l.cache.Get(ctx, key)
	if !ok {
		l.recorder.CacheMiss(ctx, resource)
		return v, false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		l.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		l.cache.Delete(ctx, key)
		l.recorder.CacheMiss(ctx, resource)
		var zero T
		return zero, false
	}

	l.recorder.CacheHit(ctx, resource)
	return v, true
}

// Put stores v under key. Encoding failures are logged and ignored.
func Put[T any](ctx context.Context, l *Loader, key string, v T, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn("Skipping cache population, value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	l.cache.Set(ctx, key, data, ttl)
}

// Invalidate deletes keys and every key under the given prefixes
func (l *Loader) Invalidate(ctx context.Context, keys []string, prefixes ...string) {
	if len(keys) > 0 {
		l.cache.Delete(ctx, keys...)
	}
	for _, p := range prefixes {
		l.cache.DeleteByPrefix(ctx, p)
	}
}

// resourceOf labels a key by its leading segment, e.g. "project" or "projects".
func resourceOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
