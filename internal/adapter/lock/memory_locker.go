package lock

import (
	"context"
	"sync"
	"time"

	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
)

// MemoryLocker serializes admissions inside a single process. A key's slot
// lives only while some caller holds or waits for it.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

func (l *MemoryLocker) ref(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s.ch
}

func (l *MemoryLocker) unref(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		s := l.slots[key]
		if s == nil {
			continue
		}
		if s.refs--; s.refs == 0 {
			delete(l.slots, key)
		}
	}
}

// size reports how many keys currently have a slot.
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func (l *MemoryLocker) Acquire(ctx context.Context, keys []string, wait time.Duration) (ports.Release, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(keys))
	referenced := make([]string, 0, len(keys))
	unlock := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
		l.unref(referenced)
	}

	for _, key := range keys {
		ch := l.ref(key)
		referenced = append(referenced, key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		default:
			select {
			case ch <- struct{}{}:
				held = append(held, ch)
			case <-timer.C:
				unlock()
				return nil, &domain.ConcurrencyError{Op: "acquire lock " + key}
			case <-ctx.Done():
				unlock()
				return nil, ctx.Err()
			}
		}
	}

	var once sync.Once
	return func(context.Context) { once.Do(unlock) }, nil
}

var _ ports.Locker = (*MemoryLocker)(nil)
