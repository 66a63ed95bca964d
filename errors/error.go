package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error.
type ErrorType string

const (
	// InvalidInputError indicates an invalid input error.
	InvalidInputError ErrorType = "InvalidInput"
	// InternalError indicates an internal error.
	InternalError ErrorType = "Internal"
	// InvalidDataErr indicates a data validation error.
	InvalidDataErr ErrorType = "DataInvalid"
	// InvalidConfigErr indicates a configuration that cannot be used to build an evaluator.
	InvalidConfigErr ErrorType = "ConfigInvalid"
	// UnavailableErr indicates a device or endpoint that could not be reached.
	UnavailableErr ErrorType = "Unavailable"
)

var (
	// ErrWidthMismatch is returned when two fractions of different bit widths are combined.
	ErrWidthMismatch = New(InvalidInputError, "fraction widths differ")
	// ErrInvalidWidth is returned for a bit width outside the supported range.
	ErrInvalidWidth = New(InvalidInputError, "invalid fraction width")
	// ErrRawOverflow is returned when raw bits do not fit in the requested width.
	ErrRawOverflow = New(InvalidInputError, "raw value does not fit in width")
	// ErrInvalidBinary is returned when a binary fraction literal cannot be parsed.
	ErrInvalidBinary = New(InvalidInputError, "invalid binary fraction")
	// ErrOutOfDomain is returned for inputs the encoder cannot reduce into [0,1) with one step.
	ErrOutOfDomain = New(InvalidInputError, "input out of domain [0, 2)")
	// ErrNotFinite is returned for NaN and infinite inputs.
	ErrNotFinite = New(InvalidInputError, "input is not finite")

	ErrInvalidTableSize = New(InvalidConfigErr, "invalid log table size")
	ErrZeroTableEntry   = New(InvalidConfigErr, "log table entry rounds to zero")
	ErrInvalidStepBound = New(InvalidConfigErr, "step bound must be positive")

	ErrEmptyInput    = Data("empty input")
	ErrInvalidNumber = Data("not a number")

	ErrPortNotConfigured = New(InvalidConfigErr, "serial port name is empty")
)

// TypedError represents an error with a specific type.
type TypedError struct {
	Type ErrorType
	Err  error
}

// Is returns true if the err is a *TypesError and its Type is the one specified
func Is(err error, typ ErrorType) bool {
	var e *TypedError
	if errors.As(err, &e) {
		return e.Type == typ
	}
	return false
}

// Error implements the error interface for TypedError.
func (e *TypedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *TypedError) Unwrap() error {
	return e.Err
}

// New creates a new TypedError with the given error type and message.
func New(errorType ErrorType, message string) *TypedError {
	return &TypedError{Type: errorType, Err: errors.New(message)}
}

// Newf creates a new TypedError with the given error type and message.
func Newf(errorType ErrorType, message string, a ...any) *TypedError {
	return &TypedError{Type: errorType, Err: fmt.Errorf(message, a...)}
}

// Wrap creates a new TypedError by wrapping an existing error with an additional message.
func Wrap(errorType ErrorType, err error, message string) *TypedError {
	return &TypedError{Type: errorType, Err: fmt.Errorf("%s: %w", message, err)}
}

// Wrapf wraps a sentinel with formatted context, keeping its type.
// errors.Is against the sentinel keeps working.
func Wrapf(sentinel *TypedError, format string, a ...any) *TypedError {
	return &TypedError{Type: sentinel.Type, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, a...))}
}

// Data creates a new invalid data error
func Data(message string, a ...any) *TypedError {
	return &TypedError{Type: InvalidDataErr, Err: fmt.Errorf(message, a...)}
}
