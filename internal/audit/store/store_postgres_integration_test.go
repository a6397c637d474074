//go:build integration

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
	"consentvault/pkg/testutil"
	"consentvault/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
	outbox   *outbox.PostgresStore
	ctx      context.Context
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
	s.outbox = outbox.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) record(actor id.AdminID, action models.Action, key id.ConsentKey, at time.Time) *models.Record {
	r, err := models.NewRecord(id.AuditID(uuid.New()), actor, action, key, "detail", "203.0.113.0", at)
	s.Require().NoError(err)
	return r
}

func (s *PostgresStoreSuite) TestAppendQueuesExportInSameTransaction() {
	r := s.record(testutil.TestIDs.AdminID1, models.ActionDataFetch, testutil.TestIDs.ConsentKey1, s.now)
	s.Require().NoError(s.store.Append(s.ctx, r))

	pending, err := s.outbox.CountPending(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, pending)

	entries, err := s.outbox.Claim(s.ctx, 10, s.now, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(r.ID.String(), entries[0].AggregateID)
	s.Equal("audit.data-fetch", entries[0].EventType)

	var exported models.Record
	s.Require().NoError(json.Unmarshal(entries[0].Payload, &exported))
	s.Equal(r.ConsentKey, exported.ConsentKey)
}

func (s *PostgresStoreSuite) TestFailedAppendLeavesNoExport() {
	r := s.record(testutil.TestIDs.AdminID1, models.ActionLogin, "", s.now)
	s.Require().NoError(s.store.Append(s.ctx, r))
	s.Require().Error(s.store.Append(s.ctx, r), "duplicate id")

	pending, err := s.outbox.CountPending(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, pending)
}

func (s *PostgresStoreSuite) TestSelfServiceRecordHasNoActor() {
	r := s.record(id.AdminID{}, models.ActionSoftDelete, testutil.TestIDs.ConsentKey1, s.now)
	s.Require().NoError(s.store.Append(s.ctx, r))

	records, err := s.store.ListRecent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.True(records[0].ActorID.IsNil())
	s.Equal(testutil.TestIDs.ConsentKey1, records[0].ConsentKey)
}

func (s *PostgresStoreSuite) TestListRecentAndRetention() {
	day := 24 * time.Hour
	old := s.record(testutil.TestIDs.AdminID1, models.ActionLogin, "", s.now.Add(-800*day))
	recent := s.record(testutil.TestIDs.AdminID1, models.ActionLogout, "", s.now)
	s.Require().NoError(s.store.Append(s.ctx, old))
	s.Require().NoError(s.store.Append(s.ctx, recent))

	records, err := s.store.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(recent.ID, records[0].ID)

	n, err := s.store.DeleteOlderThan(s.ctx, s.now.Add(-730*day))
	s.Require().NoError(err)
	s.Equal(1, n)

	records, err = s.store.ListRecent(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(records, 1)
}
