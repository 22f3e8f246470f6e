package postgres

import (
	"context"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

// SeederRepo is satisfied by both the postgres and the in-memory user stores.
type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

type DemoUser struct {
	Email    string
	Mobile   string
	FullName string
	Gender   domain.Gender
	Password string
}

// DemoUsers are created pre-verified in dev so the API can be exercised without registering.
var DemoUsers = []DemoUser{
	{Email: "demo@example.com", Mobile: "9000000000", FullName: "Demo User", Gender: domain.GenderOther, Password: "demo1234"},
}

type SeedReport struct {
	Created  int
	Existing int
	Failed   int
}

// SeedUsers inserts DemoUsers. Accounts that already exist are counted, not
// treated as failures, so it is safe on every restart.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) SeedReport {
	var rep SeedReport
	for _, d := range DemoUsers {
		hash, err := hasher.Hash(d.Password)
		if err != nil {
			rep.Failed++
			logger.Logger.Warn().Err(err).Str("email", d.Email).Msg("seed: hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			Email:            d.Email,
			Mobile:           d.Mobile,
			FullName:         d.FullName,
			Gender:           d.Gender,
			PasswordHash:     hash,
			IsEmailVerified:  true,
			IsMobileVerified: true,
		})
		switch {
		case err == nil:
			rep.Created++
		case domain.Is(err, "user_already_exists"):
			rep.Existing++
		default:
			rep.Failed++
			logger.Logger.Warn().Err(err).Str("email", d.Email).Msg("seed: create failed")
		}
	}

	logger.Logger.Info().
		Int("created", rep.Created).
		Int("existing", rep.Existing).
		Int("failed", rep.Failed).
		Msg("seed: demo users ready")
	return rep
}
