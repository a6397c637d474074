package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consentvault/internal/identity/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// Error contract shared by every identity store:
//   - ErrNotFound when no identity matches
//   - ErrConflict when an active identity already holds the contact digest
//   - ErrAlreadyUsed when the consent key is taken (callers draw a new key)

// InMemoryStore keeps identities in memory for tests and standalone runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.IdentityID]*models.Identity
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{identities: make(map[id.IdentityID]*models.Identity)}
}

func (s *InMemoryStore) Create(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.identities {
		if existing.ConsentKey == identity.ConsentKey {
			return fmt.Errorf("consent key taken: %w", sentinel.ErrAlreadyUsed)
		}
		if !existing.IsDeleted() && existing.ContactDigest == identity.ContactDigest {
			return fmt.Errorf("contact already registered: %w", sentinel.ErrConflict)
		}
	}
	s.identities[identity.ID] = clone(identity)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, identityID id.IdentityID) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[identityID]; ok {
		return clone(identity), nil
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

// FindByContactDigest only considers identities that are not soft-deleted.
func (s *InMemoryStore) FindByContactDigest(_ context.Context, digest models.ContactDigest) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, identity := range s.identities {
		if !identity.IsDeleted() && identity.ContactDigest == digest {
			return clone(identity), nil
		}
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByConsentKey(_ context.Context, key id.ConsentKey) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, identity := range s.identities {
		if identity.ConsentKey == key {
			return clone(identity), nil
		}
	}
	return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) TouchLastActivity(_ context.Context, identityID id.IdentityID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[identityID]
	if !ok {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	if at.After(identity.LastActivity) {
		identity.LastActivity = at
	}
	return nil
}

// SoftDelete stamps DeletedAt once; later calls keep the first timestamp.
func (s *InMemoryStore) SoftDelete(_ context.Context, key id.ConsentKey, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, identity := range s.identities {
		if identity.ConsentKey == key {
			if identity.DeletedAt == nil {
				deletedAt := at
				identity.DeletedAt = &deletedAt
			}
			return nil
		}
	}
	return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		out = append(out, clone(identity))
	}
	return out, nil
}

// DeleteExpired removes identities soft-deleted before deletedBefore or idle
// since before inactiveBefore, and returns the consent keys it removed.
func (s *InMemoryStore) DeleteExpired(_ context.Context, deletedBefore, inactiveBefore time.Time) ([]id.ConsentKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged []id.ConsentKey
	for identityID, identity := range s.identities {
		if expired(identity, deletedBefore, inactiveBefore) {
			purged = append(purged, identity.ConsentKey)
			delete(s.identities, identityID)
		}
	}
	return purged, nil
}

func expired(identity *models.Identity, deletedBefore, inactiveBefore time.Time) bool {
	if identity.DeletedAt != nil && !identity.DeletedAt.After(deletedBefore) {
		return true
	}
	return identity.LastActivity.Before(inactiveBefore)
}

func clone(identity *models.Identity) *models.Identity {
	c := *identity
	c.PasswordHash = append([]byte(nil), identity.PasswordHash...)
	if identity.DeletedAt != nil {
		deletedAt := *identity.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}
