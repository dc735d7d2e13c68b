package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used in log fields and response envelopes.
const (
	CodeValidation         = "validation_error"
	CodeConflict           = "conflict"
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeInvalidImage       = "invalid_image_format"
	CodeInternal           = "internal_error"
)

// Error is a domain error carrying an HTTP status and a client-safe
// message. Every expected failure of a business operation is expressed
// as one of these; anything else is treated as an internal error and
// reported generically to the caller.
type Error struct {
	Code    string // machine-readable code
	Status  int    // HTTP status surfaced to the client
	Message string // client-safe message
	Err     error  // wrapped cause, optional
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// NewValidationError reports a missing or malformed required field.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

// NewConflictError reports a uniqueness violation (duplicate name or email).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusBadRequest, Message: message}
}

// NewAuthenticationError reports a missing, invalid, or expired token.
func NewAuthenticationError(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Status: http.StatusUnauthorized, Message: message}
}

// NewInvalidCredentialsError reports a failed login. The message is
// intentionally undifferentiated: it never reveals whether the email
// or the password was wrong.
func NewInvalidCredentialsError(message string) *Error {
	return &Error{Code: CodeInvalidCredentials, Status: http.StatusUnauthorized, Message: message}
}

// NewNotFoundError reports an unresolvable id or an empty search result.
func NewNotFoundError(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// NewInvalidImageError reports a malformed image payload.
func NewInvalidImageError(message string) *Error {
	return &Error{Code: CodeInvalidImage, Status: http.StatusBadRequest, Message: message}
}

// NewInternalError wraps an unexpected store or filesystem failure.
// The message is what the client sees; err is kept for logging.
func NewInternalError(message string, err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// FromError extracts a domain *Error from err. Unexpected errors map
// to a generic internal error so no internals leak to the caller.
func FromError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternalError("Server error", err)
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
