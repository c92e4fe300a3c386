package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
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

// Failure kinds surfaced on the pipeline state. Unsupported input, empty
// extraction and missing resources are terminal for a run; malformed
// completions and rejected SQL are recovered locally first.
var (
	ErrUnsupportedInput    = errors.New("unsupported file type")
	ErrExtractionEmpty     = errors.New("no valid tables extracted")
	ErrMalformedCompletion = errors.New("malformed completion")
	ErrValidationRejected  = errors.New("invalid SQL")
	ErrExecution           = errors.New("execution error")
	ErrNotFound            = errors.New("file not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
