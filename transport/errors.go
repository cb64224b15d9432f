package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ErrorCode classifies transport failures.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline or client timeout expired.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeCanceled indicates the caller canceled the context.
	ErrCodeCanceled
	// ErrCodeConnection indicates no response was obtained (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest
	// ErrCodeClosed indicates Send was called on a closed transport.
	ErrCodeClosed
	// ErrCodeStatus indicates a response whose status is outside every
	// classified kind.
	ErrCodeStatus
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRequest:
		return "request"
	case ErrCodeClosed:
		return "closed"
	case ErrCodeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// ErrClosed is returned by Send on a closed transport.
var ErrClosed = &Error{Code: ErrCodeClosed, Message: "transport is closed"}

// Error is a transport-level failure.
type Error struct {
	// StatusCode is the HTTP status for ErrCodeStatus, 0 otherwise.
	StatusCode int
	Code       ErrorCode
	Message    string
	// Body is the response body for ErrCodeStatus.
	Body []byte
	Err  error
}

// Error returns the message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a deadline failure.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: "request timed out: " + err.Error(), Err: err}
}

// NewCanceledError wraps a cancellation.
func NewCanceledError(err error) *Error {
	return &Error{Code: ErrCodeCanceled, Message: "request canceled: " + err.Error(), Err: err}
}

// NewConnectionError wraps a failure to obtain a response.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: "connection failed: " + err.Error(), Err: err}
}

// NewRequestError wraps a failure to build the request.
func NewRequestError(err error) *Error {
	return &Error{Code: ErrCodeRequest, Message: "invalid request: " + err.Error(), Err: err}
}

// NewStatusError reports a response status that no caller classification
// handles. status is the received status line and may be empty.
func NewStatusError(statusCode int, status string, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeStatus,
		Message: fmt.Sprintf("response status code does not indicate success: %d (%s)",
			statusCode, reasonPhrase(statusCode, status)),
		Body: body,
	}
}

func reasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}

// classify turns a client error into a *Error.
func classify(ctx context.Context, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return NewCanceledError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return NewTimeoutError(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsCanceled reports whether err is a transport cancellation.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsStatus reports whether err is an unclassified status failure.
func IsStatus(err error) bool { return hasCode(err, ErrCodeStatus) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
