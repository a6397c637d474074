package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"consentvault/internal/admin/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// Administrator stores return ErrNotFound for unknown admins and ErrConflict
// when the login is already taken. Logins compare case-insensitively.

type InMemoryStore struct {
	mu     sync.RWMutex
	admins map[id.AdminID]*models.Administrator
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{admins: make(map[id.AdminID]*models.Administrator)}
}

func (s *InMemoryStore) Create(_ context.Context, admin *models.Administrator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if strings.EqualFold(existing.Login, admin.Login) {
			return fmt.Errorf("login taken: %w", sentinel.ErrConflict)
		}
	}
	s.admins[admin.ID] = clone(admin)
	return nil
}

func (s *InMemoryStore) FindByLogin(_ context.Context, login string) (*models.Administrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if strings.EqualFold(admin.Login, login) {
			return clone(admin), nil
		}
	}
	return nil, fmt.Errorf("administrator not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) RecordLogin(_ context.Context, adminID id.AdminID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[adminID]
	if !ok {
		return fmt.Errorf("administrator not found: %w", sentinel.ErrNotFound)
	}
	lastLogin := at
	admin.LastLogin = &lastLogin
	return nil
}

func clone(admin *models.Administrator) *models.Administrator {
	c := *admin
	c.PasswordHash = append([]byte(nil), admin.PasswordHash...)
	if admin.LastLogin != nil {
		t := *admin.LastLogin
		c.LastLogin = &t
	}
	return &c
}
