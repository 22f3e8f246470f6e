package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/company-registry/internal/domain"
)

type userRow struct {
	ID               string
	Email            string
	Mobile           string
	PasswordHash     string
	FullName         string
	Gender           sql.NullString
	IsEmailVerified  bool
	IsMobileVerified bool
	CreatedAt        time.Time
}

const userColumns = `id, email, mobile, password_hash, full_name, gender, is_email_verified, is_mobile_verified, created_at`

func (ur *userRow) scanTargets() []any {
	return []any{
		&ur.ID,
		&ur.Email,
		&ur.Mobile,
		&ur.PasswordHash,
		&ur.FullName,
		&ur.Gender,
		&ur.IsEmailVerified,
		&ur.IsMobileVerified,
		&ur.CreatedAt,
	}
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:               ur.ID,
		Email:            ur.Email,
		Mobile:           ur.Mobile,
		PasswordHash:     ur.PasswordHash,
		FullName:         ur.FullName,
		Gender:           domain.Gender(ur.Gender.String),
		IsEmailVerified:  ur.IsEmailVerified,
		IsMobileVerified: ur.IsMobileVerified,
		CreatedAt:        ur.CreatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
