package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
)

type secret struct {
	userID    string
	expiresAt time.Time
}

// OneTimeTokenStore keeps verification secrets per kind in process memory.
// Expired secrets are dropped when they are read and swept on every Save.
type OneTimeTokenStore struct {
	mu    sync.Mutex
	kinds map[auth.OneTimeTokenKind]map[string]secret
	now   func() time.Time
}

func NewOneTimeTokenStore() *OneTimeTokenStore {
	return &OneTimeTokenStore{
		kinds: make(map[auth.OneTimeTokenKind]map[string]secret),
		now:   time.Now,
	}
}

func (s *OneTimeTokenStore) Save(_ context.Context, kind auth.OneTimeTokenKind, token string, userID string, ttl time.Duration) error {
	switch {
	case token == "":
		return domain.ErrMissingField("token")
	case ttl <= 0:
		return domain.ErrMissingField("ttl")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	tokens := s.kinds[kind]
	if tokens == nil {
		tokens = make(map[string]secret)
		s.kinds[kind] = tokens
	}
	tokens[token] = secret{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *OneTimeTokenStore) Consume(_ context.Context, kind auth.OneTimeTokenKind, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.kinds[kind][token]
	if !ok {
		return "", domain.ErrOneTimeTokenNotFound()
	}
	delete(s.kinds[kind], token)
	if sec.expired(s.now()) {
		return "", domain.ErrOneTimeTokenNotFound()
	}
	return sec.userID, nil
}

// pending counts unexpired secrets of kind.
func (s *OneTimeTokenStore) pending(kind auth.OneTimeTokenKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now, n := s.now(), 0
	for _, sec := range s.kinds[kind] {
		if !sec.expired(now) {
			n++
		}
	}
	return n
}

func (s *OneTimeTokenStore) sweep(now time.Time) {
	for _, tokens := range s.kinds {
		for tok, sec := range tokens {
			if sec.expired(now) {
				delete(tokens, tok)
			}
		}
	}
}

func (sec secret) expired(now time.Time) bool { return !now.Before(sec.expiresAt) }
