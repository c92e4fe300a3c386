package common

import (
	"errors"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	e := NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	if got := e.Error(); got != "CONFIG_ERROR: DB_URL is required: invalid input" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(e, ErrInvalidInput) {
		t.Fatal("AppError should unwrap to its cause")
	}

	bare := NewAppError("EXECUTION", "query failed", nil)
	if got := bare.Error(); got != "EXECUTION: query failed" {
		t.Fatalf("Error() without cause = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Fatal("WrapError(nil) must stay nil")
	}
	wrapped := WrapError(ErrNotFound, "loading profile")
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("wrapped error lost its cause")
	}
	if wrapped.Error() != "loading profile: file not found" {
		t.Fatalf("wrapped = %q", wrapped.Error())
	}
}
