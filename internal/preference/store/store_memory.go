package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consentvault/internal/preference/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// InMemoryStore keeps one preference record per consent key.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[id.ConsentKey]*models.Preferences
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[id.ConsentKey]*models.Preferences)}
}

// Upsert writes the purposes, clears any soft-delete and keeps the original
// creation time so the retention window is measured from first creation.
func (s *InMemoryStore) Upsert(_ context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(prefs)
	next.StrictlyNecessary = true
	next.DeletedAt = nil
	if existing, ok := s.prefs[prefs.ConsentKey]; ok {
		next.CreatedAt = existing.CreatedAt
	}
	s.prefs[prefs.ConsentKey] = next
	return clone(next), nil
}

func (s *InMemoryStore) FindByConsentKey(_ context.Context, key id.ConsentKey) (*models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.prefs[key]; ok {
		return clone(prefs), nil
	}
	return nil, fmt.Errorf("preferences not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) SoftDelete(_ context.Context, key id.ConsentKey, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.prefs[key]
	if !ok {
		return false, fmt.Errorf("preferences not found: %w", sentinel.ErrNotFound)
	}
	return prefs.Withdraw(at), nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Preferences, 0, len(s.prefs))
	for _, prefs := range s.prefs {
		out = append(out, clone(prefs))
	}
	return out, nil
}

// DeleteCreatedBefore purges records by age since creation, ignoring updates.
func (s *InMemoryStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, prefs := range s.prefs {
		if prefs.CreatedAt.Before(cutoff) {
			delete(s.prefs, key)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteByConsentKeys removes the records of purged identities.
func (s *InMemoryStore) DeleteByConsentKeys(_ context.Context, keys []id.ConsentKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, key := range keys {
		if _, ok := s.prefs[key]; ok {
			delete(s.prefs, key)
			deleted++
		}
	}
	return deleted, nil
}

func clone(prefs *models.Preferences) *models.Preferences {
	c := *prefs
	if prefs.DeletedAt != nil {
		deletedAt := *prefs.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}
