package auth

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

// VerifyEmailRequest generates a one-time link token for the caller and publishes it.
// Returns sent=false when the address is already verified.
func (s *Service) VerifyEmailRequest(ctx context.Context, userID string) (sent bool, err error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsEmailVerified {
		return false, nil
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return false, domain.ErrRandomFailed(err)
	}

	if err := s.ott.Save(ctx, TokenVerifyEmail, token, u.ID, s.verifyEmailTTL); err != nil {
		return false, err
	}

	if err := s.pub.PublishVerifyEmail(ctx, VerifyEmailEvent{
		UserID: u.ID,
		Email:  u.Email,
		URL:    s.verifyEmailBaseURL + token,
	}); err != nil {
		return false, err
	}

	s.audit("email_verify_requested", map[string]string{"user_id": u.ID, "email": u.Email})
	return true, nil
}

// VerifyEmailConfirm consumes token and marks user as verified.
func (s *Service) VerifyEmailConfirm(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrMissingField("token")
	}

	userID, err := s.ott.Consume(ctx, TokenVerifyEmail, token)
	if err != nil {
		if domain.Is(err, "one_time_token_not_found") {
			return domain.ErrVerifyTokenInvalid()
		}
		return err
	}

	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		return err
	}

	s.audit("email_verified", map[string]string{"user_id": userID})
	return nil
}
