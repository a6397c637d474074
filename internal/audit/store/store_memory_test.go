package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/audit/models"
	"consentvault/internal/audit/outbox"
	id "consentvault/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	outbox *outbox.InMemoryStore
	store  *InMemoryStore
	base   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.outbox = outbox.NewInMemory()
	s.store = NewInMemory(WithOutbox(s.outbox))
	s.base = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) add(action models.Action, offset time.Duration) *models.Record {
	rec, err := models.NewRecord(id.AuditID(uuid.New()), id.AdminID(uuid.New()), action, "K1abcdef", "", "198.51.100.0", s.base.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(context.Background(), rec))
	return rec
}

func (s *InMemoryStoreSuite) TestAppendQueuesExport() {
	rec := s.add(models.ActionDataFetch, 0)

	entries, err := s.outbox.Claim(context.Background(), 10, s.base, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("audit.data-fetch", entries[0].EventType)
	s.Equal(rec.ID.String(), entries[0].AggregateID)

	var decoded models.Record
	s.Require().NoError(json.Unmarshal(entries[0].Payload, &decoded))
	s.Equal(rec.ConsentKey, decoded.ConsentKey)
	s.Equal(models.ActionDataFetch, decoded.Action)
}

func (s *InMemoryStoreSuite) TestListRecentAndRetention() {
	s.add(models.ActionLogin, 0)
	s.add(models.ActionLogout, time.Hour)

	recent, err := s.store.ListRecent(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(models.ActionLogout, recent[0].Action)

	n, err := s.store.DeleteOlderThan(context.Background(), s.base.Add(30*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.DeleteOlderThan(context.Background(), s.base.Add(30*time.Minute))
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *InMemoryStoreSuite) TestWithoutOutbox() {
	plain := NewInMemory()
	rec, err := models.NewRecord(id.AuditID(uuid.New()), id.AdminID{}, models.ActionSoftDelete, "K1abcdef", "self-service", "", s.base)
	s.Require().NoError(err)
	s.Require().NoError(plain.Append(context.Background(), rec))

	all, _ := plain.ListRecent(context.Background(), 0)
	s.Len(all, 1)
}
