package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_RejectsOverLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are limited independently")

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok, "a new window resets the count")
}

func TestMemoryLimiter_PrunesExpiredBuckets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	now = now.Add(2 * time.Minute)
	_, _ = l.Allow(ctx, "c")

	assert.Len(t, l.buckets, 1)
}

func newTestRedis(t *testing.T) rueidis.Client {
	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestRedisLimiter_RejectsOverLimit(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(client, "test:", 3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_SetsExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	defer client.Close()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(client, "test:", 1, time.Minute)
	l.now = func() time.Time { return now }

	_, err = l.Allow(ctx, "k")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

var _ Limiter = (*MemoryLimiter)(nil)
var _ Limiter = (*RedisLimiter)(nil)
