package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_, ok := c.Get(ctx, "project:1")
	assert.False(t, ok)

	value := []byte(`{"name":"Bad"}`)
	c.Set(ctx, "project:1", value, time.Minute)
	value[0] = 'X' // stored copy must not alias caller memory

	got, ok := c.Get(ctx, "project:1")
	require.True(t, ok)
	assert.Equal(t, `{"name":"Bad"}`, string(got))
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "short", []byte("v"), time.Millisecond)
	c.Set(ctx, "forever", []byte("v"), 0)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestInMemoryCache_Delete(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"project:a", "project:a:plan", "projects:list:x", "projects:list:y", "other"} {
		c.Set(ctx, k, []byte("v"), time.Minute)
	}

	c.Delete(ctx, "project:a", "missing")
	_, ok := c.Get(ctx, "project:a")
	assert.False(t, ok)

	c.DeleteByPrefix(ctx, "projects:")
	_, ok = c.Get(ctx, "projects:list:x")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "project:a:plan")
	assert.True(t, ok, "prefix projects: must not match project:")

	c.DeleteByPrefix(ctx, "nothing-matches:")
	assert.Equal(t, 2, c.Len())
}

func TestInMemoryCache_CloseIdempotent(t *testing.T) {
	c := NewInMemoryCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Ping(context.Background()))
}
