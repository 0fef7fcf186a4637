package readthrough

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	hits, misses map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{hits: map[string]int{}, misses: map[string]int{}}
}

func (r *countingRecorder) CacheHit(_ context.Context, resource string)  { r.hits[resource]++ }
func (r *countingRecorder) CacheMiss(_ context.Context, resource string) { r.misses[resource]++ }

type item struct {
	Name string `json:"name"`
}

func newLoader(t *testing.T) (*Loader, *cache.InMemoryCache, *countingRecorder) {
	t.Helper()
	c := cache.NewInMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	rec := newCountingRecorder()
	return New(c, WithRecorder(rec)), c, rec
}

func TestGet_LoadsOnceThenHits(t *testing.T) {
	l, _, rec := newLoader(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (item, error) {
		calls++
		return item{Name: "Hytte"}, nil
	}

	first, err := Get(ctx, l, "project:1", time.Minute, load)
	require.NoError(t, err)
	second, err := Get(ctx, l, "project:1", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rec.misses["project"])
	assert.Equal(t, 1, rec.hits["project"])
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	l, c, _ := newLoader(t)
	ctx := context.Background()

	_, err := Get(ctx, l, "project:missing", time.Minute, func(context.Context) (item, error) {
		return item{}, shared.ErrNotFound
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, 0, c.Len())

	calls := 0
	_, err = Get(ctx, l, "project:missing", time.Minute, func(context.Context) (item, error) {
		calls++
		return item{Name: "now exists"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestGet_CorruptEntryIsReloaded(t *testing.T) {
	l, c, _ := newLoader(t)
	ctx := context.Background()
	c.Set(ctx, "project:1", []byte("{not json"), time.Minute)

	v, err := Get(ctx, l, "project:1", time.Minute, func(context.Context) (item, error) {
		return item{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Name)

	cached, ok := Peek[item](ctx, l, "project:1")
	require.True(t, ok)
	assert.Equal(t, "fresh", cached.Name)
}

func TestGet_ExpiredEntryIsReloaded(t *testing.T) {
	l, _, _ := newLoader(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (item, error) {
		calls++
		return item{Name: "v"}, nil
	}

	_, err := Get(ctx, l, "k", 10*time.Millisecond, load)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = Get(ctx, l, "k", 10*time.Millisecond, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	l, c, _ := newLoader(t)
	ctx := context.Background()
	id := uuid.New()

	Put(ctx, l, ProjectKey(id), item{Name: "p"}, time.Minute)
	Put(ctx, l, PlanKey(id), item{Name: "plan"}, time.Minute)
	Put(ctx, l, ProjectListKey(project.ListFilter{}), []item{{Name: "p"}}, time.Minute)
	Put(ctx, l, ProjectStatsKey, item{Name: "stats"}, time.Minute)
	Put(ctx, l, ProjectKey(uuid.New()), item{Name: "other"}, time.Minute)

	l.Invalidate(ctx, []string{ProjectKey(id)}, ProjectScopePrefix(id), ProjectListPrefix)

	assert.Equal(t, 1, c.Len())
	_, ok := Peek[item](ctx, l, PlanKey(id))
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("7f3c1a52-0b7e-4f4e-9d0c-2b1f6b3c9a10")

	assert.Equal(t, "project:7f3c1a52-0b7e-4f4e-9d0c-2b1f6b3c9a10", ProjectKey(id))
	assert.Equal(t, "project:7f3c1a52-0b7e-4f4e-9d0c-2b1f6b3c9a10:plan", PlanKey(id))
	assert.Equal(t, "projects:list:status=:limit=100:offset=0", ProjectListKey(project.ListFilter{}))
	assert.Equal(t,
		"projects:list:status=active:limit=500:offset=10",
		ProjectListKey(project.ListFilter{Filter: shared.Filter{Limit: 9999, Offset: 10}, Status: project.StatusActive}),
	)

	a := AdHocKey("sustainability", project.Snapshot{Name: "A"})
	b := AdHocKey("sustainability", project.Snapshot{Name: "B"})
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "sustainability:anonymous:")
	assert.Equal(t, a, AdHocKey("sustainability", project.Snapshot{Name: "A"}))
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "project", resourceOf("project:1:plan"))
	assert.Equal(t, "projects", resourceOf(ProjectStatsKey))
	assert.Equal(t, "plain", resourceOf("plain"))
	assert.Equal(t, "", resourceOf(""))
}
