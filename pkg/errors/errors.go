package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeComputation ErrorType = "computation"
)

// AppError represents a library error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithDetails returns a copy of the error with details attached. Copying
// keeps the package-level sentinels immutable.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// WrapError wraps an existing error with library context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}

// Error codes for precondition violations
const (
	CodeInvalidWindow     = "INVALID_WINDOW"
	CodeInvalidHalfLife   = "INVALID_HALF_LIFE"
	CodeSeriesTooShort    = "SERIES_TOO_SHORT"
	CodeNegativeInitSigma = "NEGATIVE_INIT_SIGMA"
	CodeInvalidBins       = "INVALID_BINS"
	CodeInvalidTolerance  = "INVALID_TOLERANCE"
	CodeNonIncreasingGrid = "NON_INCREASING_GRID"
	CodeLengthMismatch    = "LENGTH_MISMATCH"
	CodeZeroModulus       = "ZERO_MODULUS"
)
