// Package apperr defines the error taxonomy shared across the service:
// validation failures, authentication failures, missing records, and
// failures of the external calendar provider.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a record (event or user) that does not exist locally.
var ErrNotFound = errors.New("not found")

// ValidationError carries field-level detail for a malformed payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// AuthError covers failures of the OAuth flow: a missing authorization
// code, a failed token exchange, or incomplete user info from the provider.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// ExternalServiceError wraps a failed call to the calendar provider. Op
// names the remote operation so "user not found locally" stays
// distinguishable from "provider call failed".
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
