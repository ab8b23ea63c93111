package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path explicitly at call sites.
var NoTX Tx

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Repositories accept a Tx so the same method runs inside or outside a
// transaction; the concrete type is infra-defined (pgx.Tx for Postgres) and
// repositories MUST gracefully accept nil (non-transactional path).
//
// The activation and deletion flows rely on this: every mutation they perform
// observes the same read view and commits or rolls back as one unit.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
