package auth

import (
	"context"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

// GetUserByID loads the account behind an authenticated request.
func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrTokenInvalid()
	}
	return s.users.GetByID(ctx, userID)
}
