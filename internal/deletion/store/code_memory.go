package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consentvault/internal/deletion/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// InMemoryCodeStore holds at most one code per identity. Nothing survives a
// restart, which invalidates every outstanding code.
type InMemoryCodeStore struct {
	mu    sync.Mutex
	codes map[id.IdentityID]models.Code
}

func NewInMemoryCodeStore() *InMemoryCodeStore {
	return &InMemoryCodeStore{codes: make(map[id.IdentityID]models.Code)}
}

// Save replaces any outstanding code for the identity.
func (s *InMemoryCodeStore) Save(_ context.Context, code *models.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.IdentityID] = *code
	return nil
}

// Take removes and returns the identity's code, expired or not.
func (s *InMemoryCodeStore) Take(_ context.Context, identityID id.IdentityID) (*models.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[identityID]
	if !ok {
		return nil, fmt.Errorf("deletion code: %w", sentinel.ErrNotFound)
	}
	delete(s.codes, identityID)
	return &code, nil
}

// Discard drops the identity's code if it is still the one given.
func (s *InMemoryCodeStore) Discard(_ context.Context, code *models.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.codes[code.IdentityID]; ok && current.Value == code.Value && current.IssuedAt.Equal(code.IssuedAt) {
		delete(s.codes, code.IdentityID)
	}
	return nil
}

// Sweep forgets codes past their tombstone window.
func (s *InMemoryCodeStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for identityID, code := range s.codes {
		if !now.Before(code.RetainUntil()) {
			delete(s.codes, identityID)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (s *InMemoryCodeStore) StartSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.Sweep(now)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
