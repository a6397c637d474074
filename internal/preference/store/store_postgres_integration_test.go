//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consentvault/internal/preference/models"
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

func (s *PostgresStoreSuite) TestUpsertKeepsCreationTime() {
	key := testutil.TestIDs.ConsentKey1
	first, err := s.store.Upsert(s.ctx, models.NewPreferences(key, models.Purposes{Performance: true}, s.now))
	s.Require().NoError(err)
	s.True(first.StrictlyNecessary)
	s.True(first.Performance)

	second, err := s.store.Upsert(s.ctx, models.NewPreferences(key, models.Purposes{Advertising: true}, s.now.Add(time.Hour)))
	s.Require().NoError(err)
	s.False(second.Performance)
	s.True(second.Advertising)
	s.True(s.now.Equal(second.CreatedAt))
	s.True(s.now.Add(time.Hour).Equal(second.UpdatedAt))
}

func (s *PostgresStoreSuite) TestSoftDeleteReportsChange() {
	key := testutil.TestIDs.ConsentKey1
	_, err := s.store.Upsert(s.ctx, models.NewPreferences(key, models.Purposes{Functional: true, SocialMedia: true}, s.now))
	s.Require().NoError(err)

	changed, err := s.store.SoftDelete(s.ctx, key, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.SoftDelete(s.ctx, key, s.now.Add(2*time.Minute))
	s.Require().NoError(err)
	s.False(changed)

	stored, err := s.store.FindByConsentKey(s.ctx, key)
	s.Require().NoError(err)
	s.False(stored.Functional)
	s.False(stored.SocialMedia)
	s.Require().NotNil(stored.DeletedAt)
	s.True(s.now.Add(time.Minute).Equal(*stored.DeletedAt))

	_, err = s.store.SoftDelete(s.ctx, testutil.TestIDs.ConsentKey2, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertRevivesDeletedRecord() {
	key := testutil.TestIDs.ConsentKey1
	_, err := s.store.Upsert(s.ctx, models.NewPreferences(key, models.Purposes{Functional: true}, s.now))
	s.Require().NoError(err)
	_, err = s.store.SoftDelete(s.ctx, key, s.now)
	s.Require().NoError(err)

	revived, err := s.store.Upsert(s.ctx, models.NewPreferences(key, models.Purposes{Functional: true}, s.now.Add(time.Hour)))
	s.Require().NoError(err)
	s.Nil(revived.DeletedAt)
	s.True(revived.Functional)
}

func (s *PostgresStoreSuite) TestRetentionDeletes() {
	day := 24 * time.Hour
	_, err := s.store.Upsert(s.ctx, models.NewPreferences(testutil.TestIDs.ConsentKey1, models.Purposes{}, s.now.Add(-731*day)))
	s.Require().NoError(err)
	_, err = s.store.Upsert(s.ctx, models.NewPreferences(testutil.TestIDs.ConsentKey2, models.Purposes{}, s.now.Add(-729*day)))
	s.Require().NoError(err)

	n, err := s.store.DeleteCreatedBefore(s.ctx, s.now.Add(-730*day))
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.DeleteByConsentKeys(s.ctx, []id.ConsentKey{testutil.TestIDs.ConsentKey2, "Missing1"})
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.DeleteByConsentKeys(s.ctx, nil)
	s.Require().NoError(err)
	s.Zero(n)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}
