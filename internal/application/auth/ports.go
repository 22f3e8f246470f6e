package auth

import (
	"context"
	"time"

	"github.com/baechuer/company-registry/internal/domain"
)

/*
UserRepo
--------
The credential store. Emails are stored lowercased and both email and
mobile are unique.

Lookups return domain.ErrUserNotFound when nothing matches. Create assigns
the id and returns domain.ErrUserAlreadyExists when a uniqueness constraint
rejects the row, which is how a lost registration race surfaces.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByEmailOrMobile(ctx context.Context, email, mobile string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	SetEmailVerified(ctx context.Context, userID string) error
	SetMobileVerified(ctx context.Context, userID string) error
}

// PasswordHasher turns passwords into salted digests. Compare returns nil on
// a match and domain.ErrInvalidCredentials on a mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenClaims is what a verified access token asserts about its bearer.
type TokenClaims struct {
	UserID   string
	Email    string
	IssuedAt time.Time
	Exp      time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, email string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

type OneTimeTokenKind string

const (
	TokenVerifyEmail  OneTimeTokenKind = "verify_email"
	TokenVerifyMobile OneTimeTokenKind = "verify_mobile"
)

// OneTimeTokenStore holds single-use verification secrets with a TTL.
// Consume is atomic and returns domain.ErrOneTimeTokenNotFound for unknown,
// expired and already consumed secrets alike.
type OneTimeTokenStore interface {
	Save(ctx context.Context, kind OneTimeTokenKind, token string, userID string, ttl time.Duration) error
	Consume(ctx context.Context, kind OneTimeTokenKind, token string) (userID string, err error)
}

// EventPublisher hands verification messages to the notification side.
// Delivery of the email or SMS happens downstream.
type EventPublisher interface {
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
	PublishVerifyMobile(ctx context.Context, evt VerifyMobileEvent) error
}

type VerifyEmailEvent struct {
	UserID string
	Email  string
	URL    string
}

type VerifyMobileEvent struct {
	UserID string
	Mobile string
	Code   string
}
