package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/baechuer/company-registry/internal/domain"
)

// UserRepo is the postgres user store. Email and mobile uniqueness is enforced
// by the table's unique constraints.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type verifiedFlag string

const (
	emailVerified  verifiedFlag = "is_email_verified"
	mobileVerified verifiedFlag = "is_mobile_verified"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// getBy reads one user matching where, which must only reference positional args.
func (r *UserRepo) getBy(ctx context.Context, where string, args ...any) (domain.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE " + where + " LIMIT 1"

	var ur userRow
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(ur.scanTargets()...); err != nil {
		return domain.User{}, lookupErr(err, domain.ErrUserNotFound)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if email = normalizeEmail(email); email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	return r.getBy(ctx, "email = $1", email)
}

// GetByEmailOrMobile is the single existence check run before registration.
func (r *UserRepo) GetByEmailOrMobile(ctx context.Context, email, mobile string) (domain.User, error) {
	email, mobile = normalizeEmail(email), strings.TrimSpace(mobile)
	if email == "" && mobile == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	return r.getBy(ctx, "email = $1 OR mobile = $2", email, mobile)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	if id = strings.TrimSpace(id); id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	return r.getBy(ctx, "id = $1", id)
}

// Create inserts u and returns it with the database-assigned id and created_at.
// A unique violation on either email or mobile is user_already_exists.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email, u.Mobile = normalizeEmail(u.Email), strings.TrimSpace(u.Mobile)
	switch {
	case u.Email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case u.Mobile == "":
		return domain.User{}, domain.ErrMissingField("mobile")
	case u.PasswordHash == "":
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (email, mobile, password_hash, full_name, gender, is_email_verified, is_mobile_verified)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userColumns

	var ur userRow
	err := r.db.QueryRowContext(ctx, q,
		u.Email, u.Mobile, u.PasswordHash, u.FullName, nullString(string(u.Gender)),
		u.IsEmailVerified, u.IsMobileVerified,
	).Scan(ur.scanTargets()...)
	switch {
	case err == nil:
		return toDomainUser(ur), nil
	case isUniqueViolation(err):
		return domain.User{}, domain.ErrUserAlreadyExists()
	default:
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, userID string) error {
	return r.setVerified(ctx, emailVerified, userID)
}

func (r *UserRepo) SetMobileVerified(ctx context.Context, userID string) error {
	return r.setVerified(ctx, mobileVerified, userID)
}

// setVerified raises flag for userID. Setting an already-set flag succeeds.
func (r *UserRepo) setVerified(ctx context.Context, flag verifiedFlag, userID string) error {
	if userID = strings.TrimSpace(userID); userID == "" {
		return domain.ErrMissingField("user_id")
	}

	res, err := r.db.ExecContext(ctx, "UPDATE users SET "+string(flag)+" = TRUE WHERE id = $1", userID)
	if err != nil {
		return lookupErr(err, domain.ErrUserNotFound)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}
