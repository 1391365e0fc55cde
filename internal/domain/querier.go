package domain

import (
	"context"
	"database/sql"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so repositories can run
// inside or outside of a unit of work.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type TxFunc func(ctx context.Context, q Querier) error

// UnitOfWork runs fn inside one store transaction. fn's error rolls the
// transaction back and is returned unchanged.
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, fn TxFunc) error
}
