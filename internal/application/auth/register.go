package auth

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

// Register creates a user and issues a session token for it.
// Either an email or a mobile match on an existing user is a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.FullName = strings.TrimSpace(in.FullName)

	switch {
	case in.Email == "":
		return RegisterResult{}, domain.ErrMissingField("email")
	case in.Password == "":
		return RegisterResult{}, domain.ErrMissingField("password")
	case in.FullName == "":
		return RegisterResult{}, domain.ErrMissingField("fullName")
	case in.Mobile == "":
		return RegisterResult{}, domain.ErrMissingField("mobile")
	}
	if !domain.IsValidGender(string(in.Gender)) {
		return RegisterResult{}, domain.ErrInvalidField("gender", "must be male, female or other")
	}

	_, err := s.users.GetByEmailOrMobile(ctx, in.Email, in.Mobile)
	switch {
	case err == nil:
		return RegisterResult{}, domain.ErrUserAlreadyExists()
	case !domain.Is(err, "user_not_found"):
		return RegisterResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if _, ok := domain.As(err); ok {
			return RegisterResult{}, err
		}
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: hash,
		FullName:     in.FullName,
		Gender:       in.Gender,
	}

	// a concurrent registration that slipped past the lookup is rejected
	// by the store's unique constraints and comes back as a conflict
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	tok, err := s.issueToken(created)
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit("user_registered", map[string]string{
		"user_id": created.ID,
		"email":   created.Email,
	})

	return RegisterResult{User: created, Token: tok}, nil
}
