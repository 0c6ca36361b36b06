package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the single error type returned by the API client. StatusCode
// is zero for transport-level failures.
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NewUnauthorizedError() *Error {
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Message:    lower(http.StatusText(http.StatusUnauthorized)),
	}
}

func NewNotFoundError(message string) *Error {
	if message == "" {
		message = lower(http.StatusText(http.StatusNotFound))
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewValidationError carries the server-provided message when present so
// callers can surface it next to the triggering action.
func NewValidationError(statusCode int, message string) *Error {
	if message == "" {
		message = lower(http.StatusText(statusCode))
	}
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewTransientError(statusCode int, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    "request failed",
		Err:        err,
	}
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsUnauthorized reports whether err is the global session-loss failure.
// Callers treat it as recoverable; the session has already been cleared.
func IsUnauthorized(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err represents a renderable empty state
// rather than a failure.
func IsNotFound(err error) bool {
	apiErr, ok := asError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsTransient reports whether err came from the network or a 5xx
// response, where retrying on the next tick is the right reaction.
func IsTransient(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode == 0 || apiErr.StatusCode >= http.StatusInternalServerError
}

// IsValidation reports whether err is a 4xx rejection other than the
// auth and not-found cases.
func IsValidation(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode >= http.StatusBadRequest &&
		apiErr.StatusCode < http.StatusInternalServerError &&
		apiErr.StatusCode != http.StatusUnauthorized &&
		apiErr.StatusCode != http.StatusNotFound
}
