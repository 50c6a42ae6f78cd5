/*
errors.go - Error types for the payroll engine

PURPOSE:
  All error types in one place. Stores and the backup service wrap these
  with context; the HTTP and CLI boundaries map them to status codes and
  exit messages.

ERROR CATEGORIES:
  1. Input errors - a daily entry or a snapshot failed boundary checks
  2. Storage errors - the backend could not read or write a key

  Malformed data already in storage is NOT an error. Readers recover it
  locally (defaults for config, skipped rows for records).

SEE ALSO:
  - entry.go: ValidateEntry returns EntryError
  - backup.go: Import returns ImportError
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonth is returned when a month string is not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidShift is returned for a shift outside mañana/tarde/noche.
	ErrInvalidShift = errors.New("invalid shift")

	// ErrShiftRequired is returned when an entry is saved without a shift.
	ErrShiftRequired = errors.New("shift is required")

	// ErrNoHours is returned when an entry is saved with zero total hours.
	ErrNoHours = errors.New("total hours must be greater than zero")

	// ErrInvalidSnapshot is returned when an import file is rejected.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EntryError reports which field of a daily entry failed validation.
type EntryError struct {
	Field string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ImportError describes why a snapshot was rejected.
type ImportError struct {
	Field  string // empty when the document itself is unreadable
	Reason string
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid snapshot: %s", e.Reason)
	}
	return fmt.Sprintf("invalid snapshot: %s %s", e.Field, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidSnapshot
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidShift) ||
		errors.Is(err, ErrShiftRequired) ||
		errors.Is(err, ErrNoHours) ||
		errors.Is(err, ErrInvalidSnapshot)
}
