// Package users owns user account records. The backing store is the system
// of record: email uniqueness is enforced by its constraint, not by
// application-level checks.
package users

import "time"

// User is a persisted account. ID and CreatedAt are assigned by the store at
// insert and never change. PasswordHash is opaque to everything outside the
// password hasher.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
