// Package lock provides the in-process batch serializer used when no Redis is
// configured. It only coordinates goroutines of a single process.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

const (
	defaultWait = 2 * time.Second
	retry       = 5 * time.Millisecond
)

// Local is a keyed lock set over clothes ids.
type Local struct {
	mu   sync.Mutex
	held map[int64]struct{}
	wait time.Duration
}

// NewLocal returns a Local that waits up to wait for contended items. Zero
// selects a default.
func NewLocal(wait time.Duration) *Local {
	if wait <= 0 {
		wait = defaultWait
	}
	return &Local{held: make(map[int64]struct{}), wait: wait}
}

// Lock takes all ids at once or none of them.
func (l *Local) Lock(ctx context.Context, ids []int64) (func(), error) {
	deadline := time.Now().Add(l.wait)
	for {
		if l.tryLock(ids) {
			var once sync.Once
			return func() { once.Do(func() { l.unlock(ids) }) }, nil
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrItemsBusy.WithDescription("clothes %v are held by another batch", ids)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (l *Local) tryLock(ids []int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range ids {
		if _, ok := l.held[id]; ok {
			return false
		}
	}
	for _, id := range ids {
		l.held[id] = struct{}{}
	}
	return true
}

func (l *Local) unlock(ids []int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range ids {
		delete(l.held, id)
	}
}
