// Package errs defines the moderation core's error taxonomy. Handlers and
// callers discriminate with errors.As / errors.Is; repos and services wrap
// these rather than inventing ad-hoc strings.
package errs

import (
	"errors"
	"fmt"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
)

// ErrDuplicateReport signals an open report already exists for the same
// reporter and target entity.
var ErrDuplicateReport = errors.New("an open report for this entity already exists")

// ValidationError rejects malformed input before any mutation. Field is a
// path into the offending request ("evidence[2].type").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether any error in err's tree is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidTransitionError rejects an illegal report status change. The stored
// record is left untouched.
type InvalidTransitionError struct {
	From enums.ReportStatus
	To   enums.ReportStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid report status transition from %q to %q", e.From, e.To)
}

// NotFoundError carries the entity kind ("report", "action") and the looked-up ID.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AlreadyReversedError rejects a second reversal of the same action.
// Reversal is deliberately not idempotent.
type AlreadyReversedError struct {
	ActionID string
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("action %s has already been reversed", e.ActionID)
}

// DataIntegrityError marks a persisted record that failed re-validation on
// read. It is surfaced, never silently repaired.
type DataIntegrityError struct {
	Entity string
	ID     string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("corrupt %s record %s: %v", e.Entity, e.ID, e.Err)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

func Integrity(entity, id string, err error) error {
	return &DataIntegrityError{Entity: entity, ID: id, Err: err}
}
