package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

// IsInvalidText reports whether err is a PostgreSQL input syntax error,
// e.g. a malformed UUID literal; repositories treat it as "not found".
func IsInvalidText(err error) bool {
	return hasCode(err, pgInvalidTextRepresentation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
