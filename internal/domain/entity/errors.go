package entity

import (
	"errors"
	"fmt"

	"github.com/firdaushadi/borang-server/internal/domain/workflow"
)

var (
	// ErrSourceUnavailable means the roster or ledger could not be reached or
	// parsed. Callers decide whether to degrade to an empty view or alert the
	// operator; it always means "cannot reach the backing service", never
	// "the operation was rejected".
	ErrSourceUnavailable = errors.New("backing service unavailable")

	// ErrUpdateFailed means a status change was not confirmed by the ledger.
	// Views must not be updated optimistically when this is returned.
	ErrUpdateFailed = errors.New("ledger status update failed")

	// ErrExtractionFailed means the receipt understanding call failed or
	// returned text with no parsable amount. It is logged, never surfaced to
	// the submitting user.
	ErrExtractionFailed = errors.New("receipt amount extraction failed")
)

// AlreadySubmittedError is returned when admission control finds an existing
// submission for the family. It carries the current status so the caller can
// show it instead of retrying.
type AlreadySubmittedError struct {
	FamilyName string
	Status     workflow.State
}

func (e *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("family %q has already submitted (status %s)", e.FamilyName, e.Status)
}

// ValidationError reports malformed input caught at the boundary before any
// network call is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
