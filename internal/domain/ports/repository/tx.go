package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX Tx

// TransactionManager executes a function within a database transaction and
// passes the transaction handle to repositories through the `tx` argument.
// Repositories MUST accept a nil tx (non-transactional path); the concrete
// type is infra-defined (pgx.Tx for Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
