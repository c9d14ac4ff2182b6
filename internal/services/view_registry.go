package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	repository "priority-tasks.com/priority-tasks/internal/repositories"
)

type viewEntry struct {
	store    *TaskStore
	lastSeen time.Time
}

// ViewRegistry owns the live views, one TaskStore per browser session. Views
// idle for longer than the idle timeout are torn down and their tasks are
// discarded.
type ViewRegistry struct {
	mu            sync.Mutex
	views         map[string]*viewEntry
	factory       repository.Factory
	idleTimeout   time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *log.Logger

	sweepWG   sync.WaitGroup
	sweepStop chan struct{}
	stopOnce  sync.Once
}

type RegistryOption func(*ViewRegistry)

func WithRegistryClock(fn func() time.Time) RegistryOption {
	return func(r *ViewRegistry) { r.now = fn }
}

// NewViewRegistry starts the idle sweeper when sweepInterval is positive.
func NewViewRegistry(
	factory repository.Factory,
	idleTimeout time.Duration,
	sweepInterval time.Duration,
	logger *log.Logger,
	opts ...RegistryOption,
) *ViewRegistry {
	r := &ViewRegistry{
		views:         make(map[string]*viewEntry),
		factory:       factory,
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		now:           time.Now,
		logger:        logger,
		sweepStop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.sweepInterval > 0 {
		r.sweepWG.Add(1)
		go r.sweepLoop()
	}

	return r
}

// Open returns the store of the view with the given id. An empty or unknown
// id opens a new view; the returned id is the one the caller must use from
// then on.
func (r *ViewRegistry) Open(viewID string) (*TaskStore, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if entry, ok := r.views[viewID]; ok {
		entry.lastSeen = now
		return entry.store, viewID
	}

	id := uuid.NewString()
	store := NewTaskStore(r.factory(id), WithClock(func() time.Time { return r.now().UTC() }))
	r.views[id] = &viewEntry{store: store, lastSeen: now}

	r.logger.WithField("view_id", id).Debug("view opened")
	return store, id
}

func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// TaskCount sums the tasks held by every live view.
func (r *ViewRegistry) TaskCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	stores := make([]*TaskStore, 0, len(r.views))
	for _, entry := range r.views {
		stores = append(stores, entry.store)
	}
	r.mu.Unlock()

	total := 0
	for _, store := range stores {
		n, err := store.Count(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Sweep tears down views idle for longer than the idle timeout and reports
// how many were removed.
func (r *ViewRegistry) Sweep(ctx context.Context) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idleTimeout)
	expired := make(map[string]*TaskStore)

	r.mu.Lock()
	for id, entry := range r.views {
		if entry.lastSeen.Before(cutoff) {
			expired[id] = entry.store
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for id, store := range expired {
		r.teardown(ctx, id, store)
	}

	if len(expired) > 0 {
		r.logger.WithFields(log.Fields{
			"evicted": len(expired),
			"live":    r.Len(),
		}).Info("idle views evicted")
	}

	return len(expired)
}

func (r *ViewRegistry) teardown(ctx context.Context, id string, store *TaskStore) {
	if err := store.close(ctx); err != nil {
		r.logger.WithError(err).WithField("view_id", id).Warn("failed to discard view tasks")
	}
}

func (r *ViewRegistry) sweepLoop() {
	defer r.sweepWG.Done()

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(context.Background())
		case <-r.sweepStop:
			return
		}
	}
}

// Shutdown stops the sweeper and tears down every live view.
func (r *ViewRegistry) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.sweepStop) })

	done := make(chan struct{})
	go func() {
		r.sweepWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("view sweeper shutdown timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*viewEntry)
	r.mu.Unlock()

	for id, entry := range views {
		r.teardown(ctx, id, entry.store)
	}

	r.logger.WithField("views", len(views)).Info("view registry shut down")
	return nil
}
