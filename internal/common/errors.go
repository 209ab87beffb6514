// Package common defines shared sentinel errors and error types used across
// the Pragati backend. Callers should match sentinels with errors.Is and the
// typed errors with errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// ErrAuthentication covers every authentication failure: wrong
	// credentials, invalid/expired/tampered tokens, wrong token class, and
	// missing principal. The causes are deliberately indistinguishable to
	// the caller.
	ErrAuthentication = errors.New("authentication failed")
)

// ConflictError reports an attempt to register an email that already has an
// account. It carries the offending email so clients can offer "log in
// instead"; it never carries the password.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

// ValidationError reports malformed registration input, with the field that
// failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
