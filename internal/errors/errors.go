package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Field:   appErr.Field,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeInvalidParameter       = "INVALID_PARAMETER"
	CodeUnknownScenario        = "UNKNOWN_SCENARIO"
	CodeInsufficientSampleSize = "INSUFFICIENT_SAMPLE_SIZE"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// InvalidParameter reports an out-of-domain numeric input for the named field.
func InvalidParameter(field string, value interface{}, constraint string) *AppError {
	return &AppError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid parameter %s=%v: %s", field, value, constraint),
		Field:   field,
	}
}

// UnknownScenario reports a scenario key that is not in the catalog.
func UnknownScenario(id string) *AppError {
	return &AppError{
		Code:    CodeUnknownScenario,
		Message: fmt.Sprintf("unknown scenario %q", id),
		Field:   "scenario",
	}
}

// InsufficientSampleSize reports a group too small for the normality test.
func InsufficientSampleSize(group string, n, min int) *AppError {
	return &AppError{
		Code:    CodeInsufficientSampleSize,
		Message: fmt.Sprintf("%s group has %d values, need at least %d", group, n, min),
		Field:   group,
	}
}

func IsInvalidParameter(err error) bool {
	return GetCode(err) == CodeInvalidParameter
}

func IsUnknownScenario(err error) bool {
	return GetCode(err) == CodeUnknownScenario
}

func IsInsufficientSampleSize(err error) bool {
	return GetCode(err) == CodeInsufficientSampleSize
}

// FieldOf returns the offending field recorded on the error, if any.
func FieldOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
