package auth

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

// Login exchanges email and password for an access token.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case domain.Is(err, "user_not_found"):
		s.audit("login_failed", map[string]string{"email": email, "reason": "unknown_email"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	case err != nil:
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		// a corrupt stored digest is a server fault, not a bad password
		if domain.Is(err, "hash_failed") {
			return LoginResult{}, err
		}
		s.audit("login_failed", map[string]string{"user_id": u.ID, "email": email, "reason": "bad_password"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return LoginResult{}, err
	}
	s.audit("login_success", map[string]string{"user_id": u.ID, "email": u.Email})

	return LoginResult{User: u, Token: tok}, nil
}
