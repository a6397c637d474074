package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/identity/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newIdentity(contact string, key id.ConsentKey) *models.Identity {
	digest, err := models.NewContactDigest(contact)
	s.Require().NoError(err)
	identity, err := models.NewIdentity(id.IdentityID(uuid.New()), "Ada", digest, []byte("hash"), key, s.now)
	s.Require().NoError(err)
	return identity
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	identity := s.newIdentity("a@x.com", "K1abcdef")
	require.NoError(s.T(), s.store.Create(s.ctx, identity))

	byID, err := s.store.FindByID(s.ctx, identity.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), identity.ConsentKey, byID.ConsentKey)

	byDigest, err := s.store.FindByContactDigest(s.ctx, identity.ContactDigest)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), identity.ID, byDigest.ID)

	byKey, err := s.store.FindByConsentKey(s.ctx, "K1abcdef")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), identity.ID, byKey.ID)

	_, err = s.store.FindByID(s.ctx, id.IdentityID(uuid.New()))
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestCreateRejectsDuplicates() {
	require.NoError(s.T(), s.store.Create(s.ctx, s.newIdentity("a@x.com", "K1abcdef")))

	err := s.store.Create(s.ctx, s.newIdentity("A@X.com", "K2abcdef"))
	assert.ErrorIs(s.T(), err, sentinel.ErrConflict)

	err = s.store.Create(s.ctx, s.newIdentity("b@x.com", "K1abcdef"))
	assert.ErrorIs(s.T(), err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestSoftDeleteFreesContactAndKeepsFirstTimestamp() {
	identity := s.newIdentity("a@x.com", "K1abcdef")
	require.NoError(s.T(), s.store.Create(s.ctx, identity))

	require.NoError(s.T(), s.store.SoftDelete(s.ctx, identity.ConsentKey, s.now))
	require.NoError(s.T(), s.store.SoftDelete(s.ctx, identity.ConsentKey, s.now.Add(time.Hour)))

	stored, err := s.store.FindByID(s.ctx, identity.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), stored.DeletedAt)
	assert.Equal(s.T(), s.now, *stored.DeletedAt)

	_, err = s.store.FindByContactDigest(s.ctx, identity.ContactDigest)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
	assert.NoError(s.T(), s.store.Create(s.ctx, s.newIdentity("a@x.com", "K3abcdef")))

	assert.ErrorIs(s.T(), s.store.SoftDelete(s.ctx, "missing1", s.now), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestTouchLastActivityIsMonotonic() {
	identity := s.newIdentity("a@x.com", "K1abcdef")
	require.NoError(s.T(), s.store.Create(s.ctx, identity))

	require.NoError(s.T(), s.store.TouchLastActivity(s.ctx, identity.ID, s.now.Add(2*time.Hour)))
	require.NoError(s.T(), s.store.TouchLastActivity(s.ctx, identity.ID, s.now.Add(time.Hour)))

	stored, _ := s.store.FindByID(s.ctx, identity.ID)
	assert.Equal(s.T(), s.now.Add(2*time.Hour), stored.LastActivity)
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	deleted := s.newIdentity("deleted@x.com", "Kdeleted")
	idle := s.newIdentity("idle@x.com", "Kidle000")
	active := s.newIdentity("active@x.com", "Kactive0")
	for _, identity := range []*models.Identity{deleted, idle, active} {
		require.NoError(s.T(), s.store.Create(s.ctx, identity))
	}
	require.NoError(s.T(), s.store.SoftDelete(s.ctx, deleted.ConsentKey, s.now))
	require.NoError(s.T(), s.store.TouchLastActivity(s.ctx, active.ID, s.now.Add(400*24*time.Hour)))
	require.NoError(s.T(), s.store.TouchLastActivity(s.ctx, deleted.ID, s.now.Add(400*24*time.Hour)))

	sweepAt := s.now.Add(400 * 24 * time.Hour)
	purged, err := s.store.DeleteExpired(s.ctx, sweepAt.Add(-365*24*time.Hour), sweepAt.Add(-365*24*time.Hour))
	require.NoError(s.T(), err)
	assert.ElementsMatch(s.T(), []id.ConsentKey{deleted.ConsentKey, idle.ConsentKey}, purged)

	purged, err = s.store.DeleteExpired(s.ctx, sweepAt.Add(-365*24*time.Hour), sweepAt.Add(-365*24*time.Hour))
	require.NoError(s.T(), err)
	assert.Empty(s.T(), purged)

	remaining, _ := s.store.ListAll(s.ctx)
	assert.Len(s.T(), remaining, 1)
}
