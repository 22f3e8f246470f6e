package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
)

const (
	ottPrefix        = "ott:"
	defaultScanCount = 200
)

var errNotConfigured = errors.New("redis one-time-token store not configured")

// OneTimeTokenStore keeps verification secrets as "ott:<kind>:<token>" -> user id,
// with the secret's TTL as the key expiry. Consume uses GETDEL, so a secret
// is handed out at most once even under concurrent confirms.
type OneTimeTokenStore struct {
	rdb *goredis.Client
}

func NewOneTimeTokenStore(c *Client) *OneTimeTokenStore {
	s := &OneTimeTokenStore{}
	if c != nil {
		s.rdb = c.rdb
	}
	return s
}

func ottKey(kind auth.OneTimeTokenKind, token string) string {
	return ottPrefix + string(kind) + ":" + token
}

func (s *OneTimeTokenStore) Save(ctx context.Context, kind auth.OneTimeTokenKind, token string, userID string, ttl time.Duration) error {
	token, userID = strings.TrimSpace(token), strings.TrimSpace(userID)
	switch {
	case token == "":
		return domain.ErrMissingField("token")
	case userID == "":
		return domain.ErrMissingField("user_id")
	case ttl <= 0:
		return domain.ErrMissingField("ttl")
	case s.rdb == nil:
		return domain.ErrRedisUnavailable(errNotConfigured)
	}

	if err := s.rdb.Set(ctx, ottKey(kind, token), userID, ttl).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (s *OneTimeTokenStore) Consume(ctx context.Context, kind auth.OneTimeTokenKind, token string) (string, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return "", domain.ErrMissingField("token")
	case s.rdb == nil:
		return "", domain.ErrRedisUnavailable(errNotConfigured)
	}

	uid, err := s.rdb.GetDel(ctx, ottKey(kind, token)).Result()
	switch {
	case errors.Is(err, goredis.Nil):
		return "", domain.ErrOneTimeTokenNotFound()
	case err != nil:
		return "", domain.ErrRedisUnavailable(err)
	case strings.TrimSpace(uid) == "":
		return "", domain.ErrOneTimeTokenNotFound()
	}
	return uid, nil
}

// PendingToken is an unconsumed one-time secret.
type PendingToken struct {
	Key    string
	UserID string
	TTL    time.Duration
}

// ListPending scans outstanding secrets of kind, or of every kind when kind is empty.
// Values and TTLs of each SCAN batch are read in one pipeline. Entries that
// expire mid-scan are skipped.
func (s *OneTimeTokenStore) ListPending(ctx context.Context, kind auth.OneTimeTokenKind, count int64) ([]PendingToken, error) {
	if s.rdb == nil {
		return nil, domain.ErrRedisUnavailable(errNotConfigured)
	}
	if count <= 0 {
		count = defaultScanCount
	}
	pattern := ottPrefix + "*"
	if kind != "" {
		pattern = ottKey(kind, "*")
	}

	var out []PendingToken
	iter := s.rdb.Scan(ctx, 0, pattern, count).Iterator()
	batch := make([]string, 0, count)
	flush := func() error {
		found, err := s.describe(ctx, batch)
		out = append(out, found...)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if int64(len(batch)) == count {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, domain.ErrRedisUnavailable(err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OneTimeTokenStore) describe(ctx context.Context, keys []string) ([]PendingToken, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	pipe := s.rdb.Pipeline()
	vals := make([]*goredis.StringCmd, len(keys))
	ttls := make([]*goredis.DurationCmd, len(keys))
	for i, k := range keys {
		vals[i] = pipe.Get(ctx, k)
		ttls[i] = pipe.PTTL(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, domain.ErrRedisUnavailable(err)
	}

	out := make([]PendingToken, 0, len(keys))
	for i, k := range keys {
		uid, err := vals[i].Result()
		if err != nil {
			continue
		}
		out = append(out, PendingToken{Key: k, UserID: uid, TTL: ttls[i].Val()})
	}
	return out, nil
}

// Purge deletes the given keys and returns how many existed.
func (s *OneTimeTokenStore) Purge(ctx context.Context, keys ...string) (int64, error) {
	if s.rdb == nil {
		return 0, domain.ErrRedisUnavailable(errNotConfigured)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, domain.ErrRedisUnavailable(err)
	}
	return n, nil
}
