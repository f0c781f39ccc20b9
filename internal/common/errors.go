package common

import (
	"errors"
	"fmt"
)

// AppError tags a run-level failure with a stable code. Pages never produce
// these; they exist for failures that abort a run before page processing,
// so callers can branch on Code instead of matching message text.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput marks caller mistakes, e.g. a malformed page range.
var ErrInvalidInput = errors.New("invalid input")

// NewAppError builds an AppError with an optional cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
