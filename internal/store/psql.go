package store

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// numberRetries is how many times a generated policy/claim/ticket number is
// regenerated after a uniqueness collision before giving up.
const numberRetries = 2
