package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	redisx "github.com/kirinyoku/cinemago/internal/redis"
)

// Window of hit timestamps kept in a sorted set. Time comes from the Redis
// server so every instance shares one clock. Rejected hits are not recorded.
//
// KEYS[1] = counter key
// ARGV[1] = window in ms
// ARGV[2] = limit
// ARGV[3] = unique member
//
// Returns {allowed, hits in window, retry after ms}.
const slidingWindowScript = `
local key    = KEYS[1]
local window = tonumber(ARGV[1])
local limit  = tonumber(ARGV[2])

local t   = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local hits = redis.call('ZCARD', key)

if hits >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  local retry = window
  if oldest[2] then
    retry = math.max(tonumber(oldest[2]) + window - now, 1)
  end
  return {0, hits, retry}
end

redis.call('ZADD', key, now, ARGV[3])
redis.call('PEXPIRE', key, window)
return {1, hits + 1, 0}
`

var slidingWindow = redis.NewScript(slidingWindowScript)

// SlidingWindowLimiter allows at most limit hits per window for each client
// key (an IP or an account) within one scope such as "login".
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
}

func NewSlidingWindowLimiter(rdb *redis.Client, scope string, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, client string) (bool, int64, time.Duration, error) {
	const op = "repository.redis.SlidingWindowLimiter.Allow"

	key := redisx.KeyRateLimit(l.scope) + ":" + client
	res, err := slidingWindow.Run(ctx, l.rdb, []string{key},
		l.window.Milliseconds(), l.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("%s: unexpected script result %v", op, res)
	}

	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}
