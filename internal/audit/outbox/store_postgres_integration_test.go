//go:build integration

package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consentvault/internal/platform/database"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
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
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) insert(offset time.Duration) *Entry {
	entry := NewEntry("audit_record", "agg", "audit.login", []byte(`{}`), s.now.Add(offset))
	s.Require().NoError(database.RunInTx(s.ctx, s.postgres.DB, func(tx *sql.Tx) error {
		return InsertTx(s.ctx, tx, entry)
	}))
	return entry
}

func (s *PostgresStoreSuite) TestClaimLeasesOldestFirst() {
	older := s.insert(-time.Minute)
	newer := s.insert(0)

	claimed, err := s.store.Claim(s.ctx, 1, s.now, 30*time.Second)
	s.Require().NoError(err)
	s.Require().Len(claimed, 1)
	s.Equal(older.ID, claimed[0].ID)

	claimed, err = s.store.Claim(s.ctx, 10, s.now, 30*time.Second)
	s.Require().NoError(err)
	s.Require().Len(claimed, 1, "leased entry is skipped")
	s.Equal(newer.ID, claimed[0].ID)

	claimed, err = s.store.Claim(s.ctx, 10, s.now.Add(time.Minute), 30*time.Second)
	s.Require().NoError(err)
	s.Len(claimed, 2, "expired leases are claimable again")
}

func (s *PostgresStoreSuite) TestMarkProcessedAndCleanup() {
	entry := s.insert(0)

	s.Require().NoError(s.store.MarkProcessed(s.ctx, entry.ID, s.now))
	s.ErrorIs(s.store.MarkProcessed(s.ctx, entry.ID, s.now), sentinel.ErrNotFound)

	pending, err := s.store.CountPending(s.ctx)
	s.Require().NoError(err)
	s.Zero(pending)

	n, err := s.store.DeleteProcessedBefore(s.ctx, s.now)
	s.Require().NoError(err)
	s.Zero(n)
	n, err = s.store.DeleteProcessedBefore(s.ctx, s.now.Add(time.Second))
	s.Require().NoError(err)
	s.EqualValues(1, n)
}
