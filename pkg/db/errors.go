package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure. When
// names are given, the constraint (Postgres) or "table.column" (SQLite) must
// match one of them.
func IsUniqueViolation(err error, names ...string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation && matchesAny(pgxErr.ConstraintName+" "+pgxErr.Message, names)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && matchesAny(pqErr.Constraint+" "+pqErr.Message, names)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return matchesAny(msg, names)
}

func matchesAny(haystack string, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if name != "" && strings.Contains(haystack, name) {
			return true
		}
	}
	return false
}
