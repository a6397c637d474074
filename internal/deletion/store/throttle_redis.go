package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "deletion_code_requests:"

// Trim, count and add in one round trip so concurrent requests cannot both
// take the last slot.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
if redis.call("ZCARD", key) >= limit then
	return 0
end
redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, math.ceil(window / 1000000))
return 1
`)

type RedisThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisThrottle(client *redis.Client, limit int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, limit: limit, window: window, now: time.Now}
}

func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	res, err := slidingWindowScript.Run(ctx, t.client,
		[]string{throttleKeyPrefix + key},
		t.now().UnixNano(),
		t.window.Nanoseconds(),
		t.limit,
		uuid.NewString(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("code request throttle: %w", err)
	}
	return res == 1, nil
}
