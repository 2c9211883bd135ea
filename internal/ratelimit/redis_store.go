package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript runs the same transition as decide inside Redis.
// KEYS[1] counter hash; ARGV now_ms, max, window_ms. Returns {allowed, reset_ms}.
var hitScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'count', 'reset')
local now = tonumber(ARGV[1])
local max = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local count = tonumber(v[1])
local reset = tonumber(v[2])
if (not count) or (not reset) or now > reset then
  reset = now + window
  redis.call('HSET', KEYS[1], 'count', 1, 'reset', reset)
  redis.call('PEXPIRE', KEYS[1], window)
  return {1, reset}
end
if count >= max then
  return {0, reset}
end
redis.call('HINCRBY', KEYS[1], 'count', 1)
return {1, reset}
`)

// RedisStore shares counters between instances.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, maxRequests int, window time.Duration, now time.Time) (Result, error) {
	vals, err := hitScript.Run(ctx, s.rdb,
		[]string{s.prefix + ":" + key},
		now.UnixMilli(), maxRequests, window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("rate limit script returned %d values", len(vals))
	}
	return Result{Success: vals[0] == 1, ResetTime: time.UnixMilli(vals[1])}, nil
}
