package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/company-registry/internal/domain"
)

// fixedWindowScript counts a hit and arms the window expiry on the first hit,
// or whenever the key has lost its TTL. Returns {count, pttl_ms}.
var fixedWindowScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if c == 1 or ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {c, ttl}
`)

var errUnexpectedReply = errors.New("ratelimit: unexpected script reply")

// FixedWindowLimiter counts hits per key in Redis. The caller encodes route,
// identity and window bucket into the key.
type FixedWindowLimiter struct {
	rdb *goredis.Client
	now func() time.Time
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	l := &FixedWindowLimiter{now: time.Now}
	if c != nil {
		l.rdb = c.rdb
	}
	return l
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int
	RetryAfter time.Duration // zero when allowed
	ResetAt    time.Time
}

// unlimited is returned when limiting is disabled (no limit or no redis).
func unlimited(limit int) Decision {
	return Decision{Allowed: true, Limit: limit, Remaining: max(0, limit)}
}

// AllowFixedWindow records one hit on key and reports whether it fits within limit.
// Redis failures come back as redis_unavailable; callers decide whether to fail open.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 || l.rdb == nil {
		return unlimited(limit), nil
	}
	if key == "" {
		return Decision{}, domain.ErrMissingField("key")
	}
	if window <= 0 {
		window = time.Minute
	}
	windowMS := max(int64(1), window.Milliseconds())

	reply, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, windowMS).Int64Slice()
	if err != nil {
		return Decision{}, domain.ErrRedisUnavailable(err)
	}
	if len(reply) != 2 {
		return Decision{}, domain.ErrRedisUnavailable(errUnexpectedReply)
	}

	count := int(reply[0])
	ttl := time.Duration(reply[1]) * time.Millisecond

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Count:     count,
		ResetAt:   l.now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
		if d.RetryAfter <= 0 {
			d.RetryAfter = window
		}
	}
	return d, nil
}
