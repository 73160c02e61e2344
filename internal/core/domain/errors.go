package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrConflict                = errors.New("booking conflict")
	ErrRateNotFound            = errors.New("rate not found")
	ErrConcurrency             = errors.New("concurrent admission in progress")
	ErrPersistence             = errors.New("persistence failure")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrResourceNotFound        = errors.New("resource not found")
	ErrTenantNotFound          = errors.New("tenant not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// ValidationError names the first field that failed normalization.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError carries every active interval the candidate overlaps.
type ConflictError struct {
	Conflicts []BookingInterval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %d existing interval(s)", len(e.Conflicts))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type RateNotFoundError struct {
	ResourceID ResourceID
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no rate configured for resource %s", e.ResourceID)
}

func (e *RateNotFoundError) Is(target error) bool { return target == ErrRateNotFound }

// ConcurrencyError is retryable: the whole admission attempt may be repeated.
type ConcurrencyError struct {
	Op  string
	Err error
}

func (e *ConcurrencyError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrConcurrency.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConcurrencyError) Unwrap() error { return e.Err }

func (e *ConcurrencyError) Is(target error) bool { return target == ErrConcurrency }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}
