package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/srgjo27/venue_booking/internal/core/domain"
)

const (
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeExclusionViolation   = "23P01"
)

// mapError classifies driver errors into the engine's error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
			return &domain.ConcurrencyError{Op: op, Err: err}
		case codeExclusionViolation:
			// The conflicting set is filled in by the caller, which still
			// knows the intervals it tried to write.
			return &domain.ConflictError{}
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
