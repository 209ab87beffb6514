package users

import "context"

// Repository persists user accounts.
//
// Create returns *common.ConflictError when the email is already registered.
// The lookups return common.ErrNotFound when no row matches. Anything else is
// a storage failure and is wrapped for the caller to treat as internal.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
