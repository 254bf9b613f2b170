// Package gwerrors contains all common errors used by the gateway.
package gwerrors

import (
	"fmt"
	"net/http"
)

var ErrTokenNotFound = fmt.Errorf("the token cannot be found")
var ErrMissingCredentials = fmt.Errorf("the required credentials cannot be found")

// RefreshError is the single error shape produced when exchanging credentials
// with the auth backend fails. A rejected exchange, a malformed backend
// response and a transport failure all collapse into this type so callers only
// have to handle one error kind.
type RefreshError struct {
	Message string
	Status  int
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("auth backend error (status %d): %s", e.Status, e.Message)
}

// NewRefreshError normalizes a failure into a RefreshError. A status of zero
// means the backend never supplied one and defaults to 400.
func NewRefreshError(message string, status int) *RefreshError {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &RefreshError{Message: message, Status: status}
}

// SessionWriteError indicates that session cookies could not be attached to
// the current response. Without cookies the browser cannot maintain the
// session, so this is fatal for the response being built.
type SessionWriteError struct {
	Cause error
}

func (e *SessionWriteError) Error() string {
	return fmt.Sprintf("cannot write session cookies: %v", e.Cause)
}

func (e *SessionWriteError) Unwrap() error {
	return e.Cause
}
