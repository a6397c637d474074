//go:build integration

package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"consentvault/internal/deletion/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/testutil"
	"consentvault/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(s.ctx))
}

func (s *RedisStoreSuite) TestCodeSaveTakeDiscard() {
	codes := NewRedisCodeStore(s.redis.Client)
	identityID := id.IdentityID(uuid.New())
	issued := time.Now().Truncate(time.Millisecond)

	first, err := models.NewCode(identityID, "K1abcdef", "111111", issued)
	s.Require().NoError(err)
	second, err := models.NewCode(identityID, "K1abcdef", "222222", issued.Add(time.Second))
	s.Require().NoError(err)

	s.Require().NoError(codes.Save(s.ctx, first))
	s.Require().NoError(codes.Save(s.ctx, second))
	s.Require().NoError(codes.Discard(s.ctx, first), "stale discard is a no-op")

	got, err := codes.Take(s.ctx, identityID)
	s.Require().NoError(err)
	s.Equal("222222", got.Value)
	s.Equal(id.ConsentKey("K1abcdef"), got.ConsentKey)
	s.True(got.ExpiresAt.Equal(second.ExpiresAt))

	_, err = codes.Take(s.ctx, identityID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	ttl := s.redis.Client.TTL(s.ctx, codeKey(identityID)).Val()
	s.LessOrEqual(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestConcurrentTakeConsumesOnce() {
	codes := NewRedisCodeStore(s.redis.Client)
	identityID := id.IdentityID(uuid.New())
	code, err := models.NewCode(identityID, "K1abcdef", "333333", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(codes.Save(s.ctx, code))

	var taken atomic.Int32
	result := testutil.RunConcurrent(10, func(int) error {
		if _, err := codes.Take(s.ctx, identityID); err != nil {
			return err
		}
		taken.Add(1)
		return nil
	})
	s.Equal(1, result.OK)
	s.Equal(9, result.Failed("not_found"))
	s.EqualValues(1, taken.Load())
}

func (s *RedisStoreSuite) TestThrottleLimitsPerKey() {
	throttle := NewRedisThrottle(s.redis.Client, 3, time.Hour)

	allowed := 0
	for range 5 {
		ok, err := throttle.Allow(s.ctx, "identity-a")
		s.Require().NoError(err)
		if ok {
			allowed++
		}
	}
	s.Equal(3, allowed)

	ok, err := throttle.Allow(s.ctx, "identity-b")
	s.Require().NoError(err)
	s.True(ok)
}
