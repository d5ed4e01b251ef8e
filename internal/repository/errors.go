package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound lookup found no row; "none existed" is not a failure
	ErrNotFound = errors.New("not found")
	// ErrConflict a uniqueness invariant would be violated
	ErrConflict = errors.New("conflict")
)

// pqUniqueViolation SQLSTATE unique_violation
const pqUniqueViolation = "23505"

// mapError turns unique violations into ErrConflict, keeping the driver error
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return &conflictError{constraint: pqErr.Constraint, err: err}
	}
	return err
}

type conflictError struct {
	constraint string
	err        error
}

func (e *conflictError) Error() string {
	if e.constraint != "" {
		return "conflict on " + e.constraint + ": " + e.err.Error()
	}
	return "conflict: " + e.err.Error()
}

func (e *conflictError) Is(target error) bool { return target == ErrConflict }

func (e *conflictError) Unwrap() error { return e.err }
