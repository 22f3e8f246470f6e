package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/company-registry/internal/domain"
)

// SQLSTATE codes the repositories translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRepr     = "22P02" // e.g. a malformed uuid literal
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool     { return sqlState(err) == uniqueViolation }
func isForeignKeyViolation(err error) bool { return sqlState(err) == foreignKeyViolation }

// lookupErr maps a single-row read failure. A missing row and a key that cannot
// exist (malformed uuid) both become notFound; anything else is db_unavailable.
func lookupErr(err error, notFound func() *domain.Error) error {
	if errors.Is(err, sql.ErrNoRows) || sqlState(err) == invalidTextRepr {
		return notFound()
	}
	return domain.ErrDBUnavailable(err)
}
