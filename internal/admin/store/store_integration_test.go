//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/admin/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
	ctx      context.Context
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
}

func (s *PostgresStoreSuite) TestLoginIsCaseInsensitive() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	admin, err := models.NewAdministrator(id.AdminID(uuid.New()), "Root", []byte("hash"), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, admin))

	found, err := s.store.FindByLogin(s.ctx, "root")
	s.Require().NoError(err)
	s.Equal(admin.ID, found.ID)
	s.Nil(found.LastLogin)

	dup, err := models.NewAdministrator(id.AdminID(uuid.New()), "ROOT", []byte("hash"), now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)

	_, err = s.store.FindByLogin(s.ctx, "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRecordLogin() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	admin, err := models.NewAdministrator(id.AdminID(uuid.New()), "root", []byte("hash"), now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, admin))

	s.Require().NoError(s.store.RecordLogin(s.ctx, admin.ID, now.Add(time.Minute)))
	found, err := s.store.FindByLogin(s.ctx, "root")
	s.Require().NoError(err)
	s.Require().NotNil(found.LastLogin)
	s.True(now.Add(time.Minute).Equal(*found.LastLogin))

	s.ErrorIs(s.store.RecordLogin(s.ctx, id.AdminID(uuid.New()), now), sentinel.ErrNotFound)
}

type RedisRevocationSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	list  *RedisRevocationList
	ctx   context.Context
}

func TestRedisRevocationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisRevocationSuite))
}

func (s *RedisRevocationSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.list = NewRedisRevocationList(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisRevocationSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(s.ctx))
}

func (s *RedisRevocationSuite) TestRevokedUntilTTL() {
	s.Require().NoError(s.list.RevokeToken(s.ctx, "jti-1", 2*time.Second))

	revoked, err := s.list.IsTokenRevoked(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.list.IsTokenRevoked(s.ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)

	s.Eventually(func() bool {
		revoked, err := s.list.IsTokenRevoked(s.ctx, "jti-1")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisRevocationSuite) TestExpiredTokenIsNotStored() {
	s.Require().NoError(s.list.RevokeToken(s.ctx, "jti-old", 0))
	revoked, err := s.list.IsTokenRevoked(s.ctx, "jti-old")
	s.Require().NoError(err)
	s.False(revoked)
}
