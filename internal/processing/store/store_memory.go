package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	contexts map[id.ConsentKey]*models.Context
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{contexts: make(map[id.ConsentKey]*models.Context)}
}

// Upsert inserts a fresh record or refreshes the existing one in place. A
// withdrawn record becomes active again but keeps its purge schedule.
func (s *InMemoryStore) Upsert(_ context.Context, c *models.Context) (*models.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contexts[c.ConsentKey]
	if !ok {
		next := clone(c)
		next.DeletedAt = nil
		next.PurgeAt = nil
		s.contexts[c.ConsentKey] = next
		return clone(next), nil
	}
	existing.Reaccept(clone(c))
	return clone(existing), nil
}

func (s *InMemoryStore) FindByConsentKey(_ context.Context, key id.ConsentKey) (*models.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contexts[key]; ok {
		return clone(c), nil
	}
	return nil, fmt.Errorf("processing context not found: %w", sentinel.ErrNotFound)
}

// Withdraw transitions an active record to rejected with a fixed purge time.
// It reports false when there is nothing active to withdraw.
func (s *InMemoryStore) Withdraw(_ context.Context, key id.ConsentKey, at time.Time, grace time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[key]
	if !ok {
		return false, nil
	}
	return c.Withdraw(at, grace), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Context, 0, len(s.contexts))
	for _, c := range s.contexts {
		out = append(out, clone(c))
	}
	return out, nil
}

// DeletePurgeDue removes records whose purge time is at or before now.
func (s *InMemoryStore) DeletePurgeDue(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, c := range s.contexts {
		if c.PurgeAt != nil && !c.PurgeAt.After(now) {
			delete(s.contexts, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryStore) DeleteByConsentKeys(_ context.Context, keys []id.ConsentKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, key := range keys {
		if _, ok := s.contexts[key]; ok {
			delete(s.contexts, key)
			deleted++
		}
	}
	return deleted, nil
}

func clone(c *models.Context) *models.Context {
	out := *c
	if c.Coordinates != nil {
		coords := *c.Coordinates
		out.Coordinates = &coords
	}
	if c.DeletedAt != nil {
		t := *c.DeletedAt
		out.DeletedAt = &t
	}
	if c.PurgeAt != nil {
		t := *c.PurgeAt
		out.PurgeAt = &t
	}
	return &out
}
