package store

import (
	"context"
	"sync"
	"time"
)

// InMemoryThrottle is a per-key sliding window counter.
type InMemoryThrottle struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewInMemoryThrottle(limit int, window time.Duration) *InMemoryThrottle {
	return &InMemoryThrottle{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records one attempt for key and reports whether it fits the window.
// Rejected attempts are not recorded.
func (t *InMemoryThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.window)
	stamps := t.windows[key]
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	stamps = stamps[i:]

	if len(stamps) >= t.limit {
		t.windows[key] = stamps
		return false, nil
	}
	t.windows[key] = append(stamps, now)
	return true, nil
}
