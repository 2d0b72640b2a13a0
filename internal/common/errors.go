// Package common defines shared constants and sentinel errors used across
// the passguardctl client layers. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidMfaCode     = errors.New("invalid multi-factor authentication code")

	// Errors returned by authenticated calls. ErrUnauthorized means the
	// token is missing, expired or rejected; ErrForbidden means the token
	// is fine but the role is insufficient.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Resource errors.
	ErrNotFound = errors.New("not found")

	// ErrActionPending is returned when an operation is refused because an
	// equivalent one is already in flight for the same target.
	ErrActionPending = errors.New("action already in progress")
)

// AccountLockedError reports a login rejected because the account is
// temporarily locked (HTTP 429). Message carries the server-provided retry
// guidance verbatim when present.
type AccountLockedError struct {
	Message string
}

func (e *AccountLockedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "account temporarily locked, try again later"
}

// ValidationError is a client-side, pre-network rejection of user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RequestError wraps transport-level and 5xx failures: the catch-all that
// is not one of the taxonomy sentinels above.
type RequestError struct {
	Status int // zero when the request never produced a response
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
