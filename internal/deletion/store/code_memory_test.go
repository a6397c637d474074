package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/deletion/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

type InMemoryCodeStoreSuite struct {
	suite.Suite
	store    *InMemoryCodeStore
	ctx      context.Context
	identity id.IdentityID
	issued   time.Time
}

func TestInMemoryCodeStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryCodeStoreSuite))
}

func (s *InMemoryCodeStoreSuite) SetupTest() {
	s.store = NewInMemoryCodeStore()
	s.ctx = context.Background()
	s.identity = id.IdentityID(uuid.New())
	s.issued = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryCodeStoreSuite) code(value string, issued time.Time) *models.Code {
	c, err := models.NewCode(s.identity, "K1abcdef", value, issued)
	s.Require().NoError(err)
	return c
}

func (s *InMemoryCodeStoreSuite) TestTakeConsumesOnce() {
	s.Require().NoError(s.store.Save(s.ctx, s.code("111111", s.issued)))

	got, err := s.store.Take(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("111111", got.Value)

	_, err = s.store.Take(s.ctx, s.identity)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryCodeStoreSuite) TestSaveReplacesOutstandingCode() {
	s.Require().NoError(s.store.Save(s.ctx, s.code("111111", s.issued)))
	s.Require().NoError(s.store.Save(s.ctx, s.code("222222", s.issued.Add(time.Minute))))

	got, err := s.store.Take(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("222222", got.Value)
}

func (s *InMemoryCodeStoreSuite) TestDiscardLeavesReplacement() {
	first := s.code("111111", s.issued)
	s.Require().NoError(s.store.Save(s.ctx, first))
	s.Require().NoError(s.store.Save(s.ctx, s.code("222222", s.issued.Add(time.Second))))

	s.Require().NoError(s.store.Discard(s.ctx, first))
	got, err := s.store.Take(s.ctx, s.identity)
	s.Require().NoError(err)
	s.Equal("222222", got.Value)
}

func (s *InMemoryCodeStoreSuite) TestSweepKeepsTombstoneUntilRetention() {
	c := s.code("111111", s.issued)
	s.Require().NoError(s.store.Save(s.ctx, c))

	s.Zero(s.store.Sweep(c.ExpiresAt.Add(time.Minute)), "expired but within tombstone window")
	s.Equal(1, s.store.Sweep(c.RetainUntil()))

	_, err := s.store.Take(s.ctx, s.identity)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
