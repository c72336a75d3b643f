package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via `tx`.
//
// The settlement path depends on this: the conditional payment update and
// the subscription extension must commit or roll back together. Use-case
// code stays free of storage types; repositories accept `tx` and detect a
// transaction handle (implementation-side) to run SELECT ... FOR UPDATE or
// tx-bound Exec/Query. Repositories MUST gracefully accept nil tx (the
// non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
