package apierr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs surfaced by Postgres and by the page_waves integrity trigger.
// The trigger raises SB001 for a cross-survey link and SB002 for a
// per-survey page-name collision so callers can tell the two apart.
const (
	sqlstateUniqueViolation   = "23505"
	sqlstateRaiseException    = "P0001"
	sqlstateCrossSurveyLink   = "SB001"
	sqlstatePageNameCollision = "SB002"
)

// IsNotFound returns true if the error is or wraps pgx.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsIntegrityViolation returns true if the error comes from the page/wave
// integrity trigger or a unique constraint. These abort the enclosing
// transaction; callers roll back and surface a single error.
func IsIntegrityViolation(err error) bool {
	switch sqlState(err) {
	case sqlstateUniqueViolation, sqlstateRaiseException,
		sqlstateCrossSurveyLink, sqlstatePageNameCollision:
		return true
	}
	return false
}

// IsNameCollision returns true if the error is the trigger's page-name
// branch. Callers report it as a name collision instead of the generic
// scope violation.
func IsNameCollision(err error) bool {
	return sqlState(err) == sqlstatePageNameCollision
}
