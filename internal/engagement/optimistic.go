package engagement

import (
	"context"
	"sync"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
)

// inflight serializes optimistic mutations per entity key. A second mutation on a
// key that is still pending is rejected rather than queued.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

func (f *inflight) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

func (f *inflight) release(key string) {
	f.mu.Lock()
	delete(f.keys, key)
	f.mu.Unlock()
}

// mutation is one optimistic change. snapshot captures the last confirmed value and
// may refuse the change; apply and restore touch only local state; remote is the
// backend call and runs with no component lock held. When unchanged reports true for
// the snapshot, the change is a no-op and nothing is applied or sent.
type mutation[T any] struct {
	key       string
	entity    string
	snapshot  func() (T, error)
	unchanged func(prev T) bool
	apply     func()
	remote    func(ctx context.Context) error
	restore   func(prev T)
}

// mutate runs snapshot → apply → remote and restores the snapshot on any remote
// failure. The returned error is always classified.
func mutate[T any](ctx context.Context, guard *inflight, m mutation[T]) error {
	if !guard.acquire(m.key) {
		return apierr.InFlight(m.entity)
	}
	defer guard.release(m.key)

	prev, err := m.snapshot()
	if err != nil {
		return apierr.Classify(err)
	}
	if m.unchanged != nil && m.unchanged(prev) {
		return nil
	}
	m.apply()
	if err := m.remote(ctx); err != nil {
		m.restore(prev)
		return apierr.Classify(err)
	}
	return nil
}
