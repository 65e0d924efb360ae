package apiclient

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotConfigured  = errors.New("api base url is not configured")
	ErrDownloadFailed = errors.New("download failed")
)

const (
	connectivityMessage = "Unable to connect to the server. Please check your connection and try again."
	genericMessage      = "An error occurred"
)

// APIError is the normalized failure of a request. Status is the HTTP status
// code of the final response, or 0 when no response was received.
type APIError struct {
	Message string
	Status  int
	// Errors holds field-level validation messages when the server sent them.
	Errors map[string][]string

	cause error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Status == 0
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

func connectivityError(cause error) *APIError {
	return &APIError{Message: connectivityMessage, Status: 0, cause: cause}
}

func httpError(status int, body []byte) *APIError {
	msg, fields := extractMessage(body)
	return &APIError{Message: msg, Status: status, Errors: fields}
}
