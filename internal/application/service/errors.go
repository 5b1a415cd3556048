package service

import (
	"errors"
	"fmt"
)

// Caller-facing messages with fixed wording
const (
	MsgReportNotFound = "Expense report not found"
	MsgNotApproved    = "Expense report must be approved before payment"
	MsgInternal       = "internal server error"
)

var (
	// ErrNotFound is returned when an operation references an unknown report ID
	ErrNotFound = errors.New("expense report not found")

	// ErrPrecondition is matched by every PreconditionError
	ErrPrecondition = errors.New("precondition failed")
)

// ValidationError reports a malformed request payload
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError reports an operation the workflow's current status does not allow.
// No state is changed when it is returned.
type PreconditionError struct {
	Message string
	Err     error
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPrecondition) match any PreconditionError
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PublicMessage returns the message a caller may see for err
func PublicMessage(err error) string {
	var ve *ValidationError
	var pe *PreconditionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNotFound):
		return MsgReportNotFound
	case errors.As(err, &pe):
		return pe.Message
	default:
		return SafeErrorMessage(err)
	}
}

// SafeErrorMessage extracts a printable message from an unexpected error
func SafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternal
	}
	msg := err.Error()
	if msg == "" {
		return MsgInternal
	}
	return msg
}
