package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input and configuration errors
const (
	// ErrCodeInvalidInput indicates the caller's input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidOptions indicates adapter construction options are malformed.
	ErrCodeInvalidOptions ErrorCode = "INVALID_OPTIONS"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Provider errors
const (
	// ErrCodeProviderUnresolved indicates a deferred source resolved to
	// something that does not satisfy the provider contract.
	ErrCodeProviderUnresolved ErrorCode = "PROVIDER_UNRESOLVED"
	// ErrCodeNotSupported indicates the provider does not support the operation.
	ErrCodeNotSupported ErrorCode = "NOT_SUPPORTED"
	// ErrCodeFetchFailed indicates an underlying fetch failed.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
