package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const pqUniqueViolation = "23505"

// trapUniqueErr maps a unique constraint violation to a field-level validation
// error so that two concurrent creates racing past the pre-insert uniqueness
// check surface exactly like the check itself.
func trapUniqueErr(err error, sentinel error, field, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return core.NewValidationError(sentinel, core.FieldError{Field: field, Message: sentinel.Error()})
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps psql "no rows" to the given domain sentinel.
func trapNoRowsErr(err error, sentinel error, msg string) error {
	if err == sql.ErrNoRows {
		return sentinel
	}
	return errors.Wrap(err, msg)
}
