package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/baechuer/company-registry/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	ott    OneTimeTokenStore
	pub    EventPublisher

	tokenTTL time.Duration
	audit    func(action string, fields map[string]string)

	// link sent via the notification worker, token appended
	verifyEmailBaseURL string // e.g. https://frontend/verify-email/
	verifyEmailTTL     time.Duration
	verifyMobileTTL    time.Duration
}

type Config struct {
	TokenTTL            time.Duration
	VerifyEmailBaseURL  string
	VerifyEmailTokenTTL time.Duration
	VerifyMobileCodeTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	ott OneTimeTokenStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	auditFn := func(string, map[string]string) {}
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	verifyTTL := cfg.VerifyEmailTokenTTL
	if verifyTTL <= 0 {
		verifyTTL = 24 * time.Hour
	}
	mobileTTL := cfg.VerifyMobileCodeTTL
	if mobileTTL <= 0 {
		mobileTTL = 10 * time.Minute
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		ott:    ott,
		pub:    pub,
		audit:  auditFn,

		tokenTTL: tokenTTL,

		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,
		verifyEmailTTL:     verifyTTL,
		verifyMobileTTL:    mobileTTL,
	}
}

// AuthToken is the session token output for handlers/DTO mapping.
type AuthToken struct {
	Token     string
	ExpiresIn int64  // seconds
	TokenType string // "Bearer"
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Mobile   string
	Gender   domain.Gender
}

type RegisterResult struct {
	User  domain.User
	Token AuthToken
}

type LoginResult struct {
	User  domain.User
	Token AuthToken
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// issueToken signs a stateless session token bound to {id, email}.
func (s *Service) issueToken(u domain.User) (AuthToken, error) {
	tok, err := s.signer.SignAccessToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return AuthToken{}, err
		}
		return AuthToken{}, domain.ErrTokenSignFailed(err)
	}

	return AuthToken{
		Token:     tok,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// newNumericCode returns a zero-padded decimal code with the given number of digits.
func newNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", errors.New("invalid code length")
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
