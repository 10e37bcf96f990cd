package repositories

import "context"

// TxFunc is a unit of work executed inside a ledger transaction.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// TransactionManager runs units of work atomically.
type TransactionManager interface {
	// RunInTx executes fn inside a single transaction. If fn returns an error
	// every write made through tx is discarded. Transient storage failures are
	// retried a bounded number of times, so fn must be safe to run again.
	RunInTx(ctx context.Context, fn TxFunc) error
}
