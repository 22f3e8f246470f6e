package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
)

var errEmptySecret = errors.New("jwt: empty signing secret")

// JWTSigner issues and verifies HS256 access tokens carrying {userId, email}.
// The secret and issuer are fixed at construction.
type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	s := &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// tokenClaims is the wire form. sub mirrors userId.
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(userID string, email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrTokenSignFailed(errEmptySecret)
	}

	iat := s.now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// VerifyAccessToken returns token_expired for a well-signed token past its exp and
// token_invalid for everything else that fails.
func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	var c tokenClaims
	parsed, err := s.parser.ParseWithClaims(token, &c, s.key)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return auth.TokenClaims{}, domain.ErrTokenExpired()
	case err != nil, !parsed.Valid:
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	if c.UserID == "" || (c.Subject != "" && c.Subject != c.UserID) {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	out := auth.TokenClaims{UserID: c.UserID, Email: c.Email, Exp: c.ExpiresAt.Time}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}

func (s *JWTSigner) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || len(s.secret) == 0 {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.secret, nil
}
