/*
errors.go - Centralized error types for the round-up engine

PURPOSE:
  All request-level error conditions in one place. Per-record problems
  (negative amount, duplicate timestamp) are NOT errors: they route the
  record to the invalid partition with a message and the batch keeps
  going. Errors here abort the whole request.

USAGE:
  The API layer maps these to HTTP status codes:

    if roundup.IsClientError(err) {
        // 422 - the caller sent something unprocessable
    }

SEE ALSO:
  - validate.go: per-record invalid messages
  - rules.go: period bound validation
*/
package roundup

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBadTimestamp is returned when a timestamp string does not match
	// the "YYYY-MM-DD HH:MM:SS" contract.
	ErrBadTimestamp = errors.New("invalid timestamp")

	// ErrInvalidPeriod is returned when a rule's bounds are malformed
	// (start after end). This is a configuration error, not a per-record
	// one: the whole request is rejected.
	ErrInvalidPeriod = errors.New("invalid period: start after end")

	// ErrNoWindows is returned when a classification or projection call
	// arrives without a single accumulation window.
	ErrNoWindows = errors.New("at least one accumulation window is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PeriodBoundsError reports which rule had start after end.
type PeriodBoundsError struct {
	Kind  string // "q", "p" or "k"
	Index int
	Start Timestamp
	End   Timestamp
}

func (e *PeriodBoundsError) Error() string {
	return fmt.Sprintf("%s rule #%d: start %s after end %s", e.Kind, e.Index, e.Start, e.End)
}

func (e *PeriodBoundsError) Unwrap() error { return ErrInvalidPeriod }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBadTimestamp) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrNoWindows)
}
