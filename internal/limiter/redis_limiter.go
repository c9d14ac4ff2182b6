package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisLimiter counts hits in fixed windows shared by every process talking
// to the same redis.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client rueidis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := r.now().UnixMilli() / r.window.Milliseconds()
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, slot)

	results := r.client.DoMulti(
		ctx,
		r.client.B().Incr().Key(redisKey).Build(),
		r.client.B().Pexpire().Key(redisKey).Milliseconds(r.window.Milliseconds()).Build(),
	)

	count, err := results[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if err := results[1].Error(); err != nil {
		return false, fmt.Errorf("rate limit expire: %w", err)
	}

	return count <= int64(r.limit), nil
}
