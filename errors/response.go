package errors

import (
	stderrors "errors"
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsService reports whether err was classified from a 400 response.
func IsService(err error) bool { return hasCode(err, ErrCodeService) }

// IsConcurrency reports whether err was classified from a 409 response.
func IsConcurrency(err error) bool { return hasCode(err, ErrCodeConcurrency) }

// IsNotFound reports whether err was classified from a 404 response.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsNotImplemented reports whether err was classified from a 501 response.
func IsNotImplemented(err error) bool { return hasCode(err, ErrCodeNotImplemented) }

// IsUnsupportedContent reports whether err is a content negotiation failure.
func IsUnsupportedContent(err error) bool { return hasCode(err, ErrCodeUnsupportedContent) }

// IsInvalidInput reports whether err is a client-side validation failure.
func IsInvalidInput(err error) bool { return hasCode(err, ErrCodeInvalidInput) }

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
