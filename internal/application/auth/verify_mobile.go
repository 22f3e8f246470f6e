package auth

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

const mobileCodeDigits = 6

// VerifyMobileRequest issues a short numeric code for the caller's mobile.
// Codes are stored under "<userID>:<code>" so a guessed code only works for its owner.
func (s *Service) VerifyMobileRequest(ctx context.Context, userID string) (sent bool, err error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsMobileVerified {
		return false, nil
	}

	code, err := newNumericCode(mobileCodeDigits)
	if err != nil {
		return false, domain.ErrRandomFailed(err)
	}

	if err := s.ott.Save(ctx, TokenVerifyMobile, mobileCodeKey(u.ID, code), u.ID, s.verifyMobileTTL); err != nil {
		return false, err
	}

	if err := s.pub.PublishVerifyMobile(ctx, VerifyMobileEvent{
		UserID: u.ID,
		Mobile: u.Mobile,
		Code:   code,
	}); err != nil {
		return false, err
	}

	s.audit("mobile_verify_requested", map[string]string{"user_id": u.ID})
	return true, nil
}

// VerifyMobileConfirm consumes the caller's code and marks the mobile as verified.
func (s *Service) VerifyMobileConfirm(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrMissingField("code")
	}

	owner, err := s.ott.Consume(ctx, TokenVerifyMobile, mobileCodeKey(userID, code))
	if err != nil {
		if domain.Is(err, "one_time_token_not_found") {
			return domain.ErrVerifyCodeInvalid()
		}
		return err
	}
	if owner != userID {
		return domain.ErrVerifyCodeInvalid()
	}

	if err := s.users.SetMobileVerified(ctx, userID); err != nil {
		return err
	}

	s.audit("mobile_verified", map[string]string{"user_id": userID})
	return nil
}

func mobileCodeKey(userID, code string) string {
	return userID + ":" + code
}
