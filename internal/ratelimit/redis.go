package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowScript counts a hit and arms the expiry in one step. The PTTL check
// also re-arms counters that were left without one.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter shares fixed-window counters between processes. The key expires
// one window after the first request counted in it.
type RedisLimiter struct {
	client redis.Scripter
	max    int
	period time.Duration
	prefix string
}

func NewRedisLimiter(client redis.Scripter, prefix string, max int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, period: period, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := windowScript.Run(ctx, l.client, []string{l.prefix + key}, l.period.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(l.max), nil
}
