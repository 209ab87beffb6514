// Package dbx holds the minimal database/sql surface shared by repositories.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so a repository can run inside or outside a
// transaction without knowing which.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
