package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baechuer/company-registry/internal/domain"
)

// memUsers is an id-keyed user table. Lookups scan, which is fine at test sizes.
// fail maps a method name to the error that method returns.
type memUsers struct {
	mu   sync.Mutex
	rows map[string]domain.User
	seq  int
	fail map[string]error
}

func (m *memUsers) seed(users ...domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.rows[u.ID] = u
	}
}

func (m *memUsers) row(id string) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memUsers) find(op string, match func(domain.User) bool) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[op]; err != nil {
		return domain.User{}, err
	}
	for _, u := range m.rows {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	return m.find("GetByEmail", func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) GetByEmailOrMobile(_ context.Context, email, mobile string) (domain.User, error) {
	return m.find("GetByEmailOrMobile", func(u domain.User) bool { return u.Email == email || u.Mobile == mobile })
}

func (m *memUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	return m.find("GetByID", func(u domain.User) bool { return u.ID == id })
}

func (m *memUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["Create"]; err != nil {
		return domain.User{}, err
	}
	for _, r := range m.rows {
		if r.Email == u.Email || r.Mobile == u.Mobile {
			return domain.User{}, domain.ErrUserAlreadyExists()
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u%d", m.seq)
	u.CreatedAt = time.Now().UTC()
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) update(op, id string, apply func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[op]; err != nil {
		return err
	}
	u, ok := m.rows[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	apply(&u)
	m.rows[id] = u
	return nil
}

func (m *memUsers) SetEmailVerified(_ context.Context, id string) error {
	return m.update("SetEmailVerified", id, func(u *domain.User) { u.IsEmailVerified = true })
}

func (m *memUsers) SetMobileVerified(_ context.Context, id string) error {
	return m.update("SetMobileVerified", id, func(u *domain.User) { u.IsMobileVerified = true })
}

// prefixHasher "hashes" by prefixing. Either func overrides the default.
type prefixHasher struct {
	hash    func(string) (string, error)
	compare func(string, string) error
}

func (h *prefixHasher) Hash(pw string) (string, error) {
	if h.hash != nil {
		return h.hash(pw)
	}
	return "hash:" + pw, nil
}

func (h *prefixHasher) Compare(digest, pw string) error {
	if h.compare != nil {
		return h.compare(digest, pw)
	}
	if digest != "hash:"+pw {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

type stubSigner struct {
	err     error
	lastTTL time.Duration
}

func (s *stubSigner) SignAccessToken(userID, email string, ttl time.Duration) (string, error) {
	s.lastTTL = ttl
	if s.err != nil {
		return "", s.err
	}
	return "jwt(" + userID + "," + email + ")", nil
}

func (s *stubSigner) VerifyAccessToken(string) (TokenClaims, error) {
	return TokenClaims{}, errors.New("not used")
}

type savedSecret struct {
	userID string
	ttl    time.Duration
}

type memSecrets struct {
	mu      sync.Mutex
	entries map[OneTimeTokenKind]map[string]savedSecret
	saveErr error
}

func (s *memSecrets) Save(_ context.Context, kind OneTimeTokenKind, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.entries[kind] == nil {
		s.entries[kind] = map[string]savedSecret{}
	}
	s.entries[kind][token] = savedSecret{userID: userID, ttl: ttl}
	return nil
}

func (s *memSecrets) Consume(_ context.Context, kind OneTimeTokenKind, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[kind][token]
	if !ok {
		return "", domain.ErrOneTimeTokenNotFound()
	}
	delete(s.entries[kind], token)
	return e.userID, nil
}

// only returns the token and entry of the single pending secret of kind.
func (s *memSecrets) only(t *testing.T, kind OneTimeTokenKind) (string, savedSecret) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.entries[kind], 1, "pending %s secrets", kind)
	for tok, e := range s.entries[kind] {
		return tok, e
	}
	return "", savedSecret{}
}

func (s *memSecrets) pending(kind OneTimeTokenKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[kind])
}

type sentEvents struct {
	err    error
	emails []VerifyEmailEvent
	codes  []VerifyMobileEvent
}

func (p *sentEvents) PublishVerifyEmail(_ context.Context, evt VerifyEmailEvent) error {
	if p.err != nil {
		return p.err
	}
	p.emails = append(p.emails, evt)
	return nil
}

func (p *sentEvents) PublishVerifyMobile(_ context.Context, evt VerifyMobileEvent) error {
	if p.err != nil {
		return p.err
	}
	p.codes = append(p.codes, evt)
	return nil
}

type auditEntry struct {
	action string
	fields map[string]string
}

// harness is a Service over in-memory ports, with every port exposed for setup and inspection.
type harness struct {
	svc     *Service
	users   *memUsers
	hasher  *prefixHasher
	signer  *stubSigner
	secrets *memSecrets
	events  *sentEvents
	audits  []auditEntry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:   &memUsers{rows: map[string]domain.User{}, fail: map[string]error{}},
		hasher:  &prefixHasher{},
		signer:  &stubSigner{},
		secrets: &memSecrets{entries: map[OneTimeTokenKind]map[string]savedSecret{}},
		events:  &sentEvents{},
	}
	h.svc = NewService(h.users, h.hasher, h.signer, h.secrets, h.events, Config{
		TokenTTL:            time.Hour,
		VerifyEmailBaseURL:  "https://fe/verify-email/",
		VerifyEmailTokenTTL: 24 * time.Hour,
		VerifyMobileCodeTTL: 10 * time.Minute,
	}).WithAudit(func(action string, fields map[string]string) {
		cp := make(map[string]string, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		h.audits = append(h.audits, auditEntry{action: action, fields: cp})
	})
	return h
}

func (h *harness) lastAudit(t *testing.T, action string) auditEntry {
	t.Helper()
	require.NotEmpty(t, h.audits, "no audit entries")
	e := h.audits[len(h.audits)-1]
	require.Equal(t, action, e.action)
	return e
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:    "a@x.com",
		Password: "secret1",
		FullName: "A B",
		Mobile:   "9876543210",
	}
}

// codeOf is "" for nil and "non_domain_error" for errors outside the domain package.
func codeOf(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := domain.As(err); ok {
		return de.Code
	}
	return "non_domain_error"
}

func requireCode(t *testing.T, err error, want string) {
	t.Helper()
	require.Equal(t, want, codeOf(err), "err=%v", err)
}
