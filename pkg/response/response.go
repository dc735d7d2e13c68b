// Package response builds the JSON envelope every endpoint returns:
//
//	{"returnValue": {"message": ..., "returnCode": ...}, "data": ...}
//
// data is present only when the operation produces a result payload.
package response

import (
	"strconv"

	apperrors "user-account-service/pkg/errors"
)

// ReturnValue carries the message and stringified status code.
type ReturnValue struct {
	Message    string `json:"message"`
	ReturnCode string `json:"returnCode"`
}

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	ReturnValue ReturnValue `json:"returnValue"`
	Data        any         `json:"data,omitempty"`
}

// New builds an envelope with no data payload.
func New(status int, message string) Envelope {
	return Envelope{
		ReturnValue: ReturnValue{
			Message:    message,
			ReturnCode: strconv.Itoa(status),
		},
	}
}

// WithData builds an envelope carrying a result payload.
func WithData(status int, message string, data any) Envelope {
	e := New(status, message)
	e.Data = data
	return e
}

// FromError translates any error into a status code and envelope.
// Domain errors keep their status and client-safe message; everything
// else surfaces as a generic 500.
func FromError(err error) (int, Envelope) {
	de := apperrors.FromError(err)
	return de.HTTPStatus(), New(de.HTTPStatus(), de.Message)
}
