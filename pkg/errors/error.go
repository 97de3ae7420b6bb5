// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration and sources
//   - Config file errors (200-299): Missing or unreadable config files
//   - Feed errors (700-799): Market data parsing and connection errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeFeedParseFailed, "malformed ticker frame", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeFeedParseFailed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsRecoverable reports whether a feed error only affects a single message.
// Parse failures drop one frame and the stream keeps going; anything else ends the session.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	switch GetCode(err) {
	case ErrCodeFeedParseFailed, ErrCodeFeedDuplicateSymbol:
		return true
	default:
		return IsFieldParseError(err)
	}
}

// FieldParseError describes a single ticker record field that could not be parsed.
type FieldParseError struct {
	Symbol string // Symbol of the record, may be empty when the symbol itself is missing
	Field  string // Wire key of the field (e.g. "c" for last price)
	Raw    string // Raw value as received
}

// NewFieldParseError creates a new FieldParseError.
func NewFieldParseError(symbol, field, raw string) *FieldParseError {
	return &FieldParseError{
		Symbol: symbol,
		Field:  field,
		Raw:    raw,
	}
}

// Error implements the error interface.
func (e *FieldParseError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("invalid value %q for field %q", e.Raw, e.Field)
	}

	return fmt.Sprintf("invalid value %q for field %q of %s", e.Raw, e.Field, e.Symbol)
}

// IsFieldParseError checks if an error is a FieldParseError.
// It uses errors.As to check the error chain.
func IsFieldParseError(err error) bool {
	var fieldErr *FieldParseError

	return errors.As(err, &fieldErr)
}
