package limiter

import (
	"context"
	"sync"
	"time"
)

// Limiter admits at most a fixed number of hits per key and window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count int
	start time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.window {
		l.prune(now)
		b = &bucket{start: now}
		l.buckets[key] = b
	}

	if b.count >= l.limit {
		return false, nil
	}

	b.count++
	return true, nil
}

// prune drops expired buckets so idle clients do not accumulate.
func (l *MemoryLimiter) prune(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, key)
		}
	}
}
