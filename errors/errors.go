package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified datakit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidInput creates a new AppError for invalid caller input.
func InvalidInput(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidOptions creates a new AppError for malformed construction options.
func InvalidOptions(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidOptions, Message: message}
}

// ProviderUnresolved creates a new AppError for a deferred source that
// did not produce a usable provider.
func ProviderUnresolved(message string) *AppError {
	return &AppError{Code: ErrCodeProviderUnresolved, Message: message}
}

// NotSupported creates a new AppError for an unsupported operation.
func NotSupported(operation string) *AppError {
	return &AppError{
		Code:    ErrCodeNotSupported,
		Message: fmt.Sprintf("operation %s is not supported by this provider", operation),
		Details: map[string]any{"operation": operation},
	}
}

// --- Inspection helpers ---

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err's chain contains an AppError with the code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
