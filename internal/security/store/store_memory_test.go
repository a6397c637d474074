package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/security/models"
	id "consentvault/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	base  time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) add(offset time.Duration) {
	e, err := models.NewEvent(id.EventID(uuid.New()), models.EventAuthenticationSucceeded, "198.51.100.0", "", s.base.Add(offset), 30*24*time.Hour)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(context.Background(), e))
}

func (s *InMemoryStoreSuite) TestListRecentNewestFirst() {
	s.add(0)
	s.add(2 * time.Hour)
	s.add(time.Hour)

	events, err := s.store.ListRecent(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(s.base.Add(2*time.Hour), events[0].OccurredAt)
	s.Equal(s.base.Add(time.Hour), events[1].OccurredAt)
}

func (s *InMemoryStoreSuite) TestDeleteExpiredIsIdempotent() {
	s.add(0)
	s.add(10 * 24 * time.Hour)

	now := s.base.Add(31 * 24 * time.Hour)
	n, err := s.store.DeleteExpired(context.Background(), now)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.DeleteExpired(context.Background(), now)
	s.Require().NoError(err)
	s.Equal(0, n)

	remaining, _ := s.store.ListRecent(context.Background(), 0)
	s.Len(remaining, 1)
}
