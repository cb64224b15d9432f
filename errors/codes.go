package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Remote resource errors, raised by the proxy after classifying a response.
const (
	// ErrCodeService indicates the server rejected the request as invalid (HTTP 400).
	ErrCodeService ErrorCode = "SERVICE_ERROR"
	// ErrCodeConcurrency indicates a stale or conflicting update (HTTP 409).
	ErrCodeConcurrency ErrorCode = "CONCURRENCY_CONFLICT"
	// ErrCodeNotFound indicates the requested resource was not found (HTTP 404).
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeNotImplemented indicates the server does not support the operation (HTTP 501).
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrCodeUnsupportedContent indicates the response content type cannot be
	// decoded by the selected codec.
	ErrCodeUnsupportedContent ErrorCode = "UNSUPPORTED_CONTENT"
)

// Client-side errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
