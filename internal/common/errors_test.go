package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError("artifact_store", "create output store", cause)

	if got := err.Error(); got != "artifact_store: create output store: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	var app *AppError
	if !errors.As(error(err), &app) || app.Code != "artifact_store" {
		t.Errorf("errors.As lost the code: %+v", app)
	}
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError("source_pdf", "open in.pdf", nil)
	if got := err.Error(); got != "source_pdf: open in.pdf" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Unwrap(err) != nil {
		t.Error("unexpected cause")
	}
}

func TestErrInvalidInputWraps(t *testing.T) {
	err := fmt.Errorf("%w: page range 3-1", ErrInvalidInput)
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("wrapped sentinel not matched")
	}
}
