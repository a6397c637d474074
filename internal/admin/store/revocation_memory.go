package store

import (
	"context"
	"sync"
	"time"
)

// InMemoryRevocationList holds revoked token IDs until the token would have
// expired anyway. Revocations do not survive a restart.
type InMemoryRevocationList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *InMemoryRevocationList) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = l.now().Add(ttl)
	return nil
}

func (l *InMemoryRevocationList) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	until, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	return l.now().Before(until), nil
}

// Sweep drops entries whose token has expired.
func (l *InMemoryRevocationList) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for jti, until := range l.revoked {
		if !now.Before(until) {
			delete(l.revoked, jti)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (l *InMemoryRevocationList) StartSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
