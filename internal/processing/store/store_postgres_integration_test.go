//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/testutil"
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

func (s *PostgresStoreSuite) TestUpsertRoundTripsGeography() {
	geo := models.Geo{
		ISP:         "Example Telecom",
		City:        "Lisbon",
		Region:      "Lisbon",
		Country:     "PT",
		Coordinates: &models.Coordinates{Latitude: 38.72, Longitude: -9.14},
	}
	c, err := models.NewAcceptedContext(testutil.TestIDs.ConsentKey1, "203.0.113.0", geo, s.now)
	s.Require().NoError(err)

	stored, err := s.store.Upsert(s.ctx, c)
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, stored.Status)
	s.Equal("Lisbon", stored.City)
	s.Require().NotNil(stored.Coordinates)
	s.InDelta(38.72, stored.Coordinates.Latitude, 0.0001)

	refreshed, err := s.store.Upsert(s.ctx, testutil.NewTestContext(testutil.TestIDs.ConsentKey1, s.now.Add(time.Hour)))
	s.Require().NoError(err)
	s.True(s.now.Equal(refreshed.CreatedAt), "active record keeps its creation time")
	s.Nil(refreshed.Coordinates)
}

func (s *PostgresStoreSuite) TestWithdrawSetsPurgeOnce() {
	key := testutil.TestIDs.ConsentKey1
	_, err := s.store.Upsert(s.ctx, testutil.NewTestContext(key, s.now))
	s.Require().NoError(err)

	grace := 30 * 24 * time.Hour
	changed, err := s.store.Withdraw(s.ctx, key, s.now, grace)
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.Withdraw(s.ctx, key, s.now.Add(time.Hour), grace)
	s.Require().NoError(err)
	s.False(changed)

	stored, err := s.store.FindByConsentKey(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, stored.Status)
	s.Require().NotNil(stored.PurgeAt)
	s.True(s.now.Add(grace).Equal(*stored.PurgeAt))

	n, err := s.store.DeletePurgeDue(s.ctx, s.now.Add(grace-time.Second))
	s.Require().NoError(err)
	s.Zero(n)
	n, err = s.store.DeletePurgeDue(s.ctx, s.now.Add(grace))
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.store.FindByConsentKey(s.ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestReacceptKeepsPurgeSchedule() {
	key := testutil.TestIDs.ConsentKey1
	grace := 30 * 24 * time.Hour
	_, err := s.store.Upsert(s.ctx, testutil.NewTestContext(key, s.now))
	s.Require().NoError(err)
	_, err = s.store.Withdraw(s.ctx, key, s.now.Add(time.Hour), grace)
	s.Require().NoError(err)
	purgeAt := s.now.Add(time.Hour).Add(grace)

	reaccepted, err := s.store.Upsert(s.ctx, testutil.NewTestContext(key, s.now.Add(2*time.Hour)))
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, reaccepted.Status)
	s.Nil(reaccepted.DeletedAt)
	s.True(s.now.Equal(reaccepted.CreatedAt))
	s.Require().NotNil(reaccepted.PurgeAt)
	s.True(purgeAt.Equal(*reaccepted.PurgeAt))

	changed, err := s.store.Withdraw(s.ctx, key, s.now.Add(72*time.Hour), grace)
	s.Require().NoError(err)
	s.True(changed)
	stored, err := s.store.FindByConsentKey(s.ctx, key)
	s.Require().NoError(err)
	s.True(purgeAt.Equal(*stored.PurgeAt), "second withdrawal keeps the first schedule")

	n, err := s.store.DeletePurgeDue(s.ctx, purgeAt)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *PostgresStoreSuite) TestDeleteByConsentKeys() {
	for _, key := range []id.ConsentKey{testutil.TestIDs.ConsentKey1, testutil.TestIDs.ConsentKey2} {
		_, err := s.store.Upsert(s.ctx, testutil.NewTestContext(key, s.now))
		s.Require().NoError(err)
	}

	n, err := s.store.DeleteByConsentKeys(s.ctx, []id.ConsentKey{testutil.TestIDs.ConsentKey1})
	s.Require().NoError(err)
	s.Equal(1, n)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(testutil.TestIDs.ConsentKey2, all[0].ConsentKey)
}
