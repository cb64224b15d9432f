// Package errors provides the typed error taxonomy of the data proxy.
//
// Every failure classified from a remote response is an *AppError carrying one
// of the resource codes. Callers branch on the kind either with the predicates
// (IsNotFound, IsConcurrency, ...) or with the standard library:
//
//	if errors.Is(err, dperrors.ErrNotFound) { ... }
//
// Message holds the server text exactly as the error formatter returned it.
// Error() prefixes it with the code, so read Message when showing the server's
// own wording to a user.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the status code the error was classified from, or the
	// recommended one for client-side errors.
	HTTPStatus int `json:"-"`
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

// Is reports whether target is an *AppError with the same code. It makes the
// sentinel values below usable with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
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

// New creates an AppError. None of the codes are retryable as such: a
// conflict needs a fresh read before the update can be resubmitted.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrService            = &AppError{Code: ErrCodeService}
	ErrConcurrency        = &AppError{Code: ErrCodeConcurrency}
	ErrNotFound           = &AppError{Code: ErrCodeNotFound}
	ErrNotImplemented     = &AppError{Code: ErrCodeNotImplemented}
	ErrUnsupportedContent = &AppError{Code: ErrCodeUnsupportedContent}
	ErrInvalidInput       = &AppError{Code: ErrCodeInvalidInput}
)

// --- Remote resource errors ---

// Service creates the error raised when the server answers 400 Bad Request.
func Service(message string) *AppError {
	return New(ErrCodeService, message, http.StatusBadRequest)
}

// Concurrency creates the error raised when the server answers 409 Conflict.
func Concurrency(message string) *AppError {
	return New(ErrCodeConcurrency, message, http.StatusConflict)
}

// NotFound creates the error raised when the server answers 404 Not Found.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message, http.StatusNotFound)
}

// NotImplemented creates the error raised when the server answers 501 Not Implemented.
func NotImplemented(message string) *AppError {
	return New(ErrCodeNotImplemented, message, http.StatusNotImplemented)
}

// UnsupportedContent creates the error raised when a response body has a
// content type the active codec cannot decode.
func UnsupportedContent(contentType, codec string) *AppError {
	return &AppError{
		Code:       ErrCodeUnsupportedContent,
		Message:    fmt.Sprintf("no %s decoder is available for content of type %q", codec, contentType),
		HTTPStatus: http.StatusUnsupportedMediaType,
		Details:    map[string]any{"content_type": contentType, "codec": codec},
	}
}

// --- Client-side errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
