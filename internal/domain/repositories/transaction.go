package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
// Repositories called with the ctx passed to fn join the transaction.
type TransactionManager interface {
	// ExecTx executes fn within a transaction. The transaction commits when
	// fn returns nil and rolls back otherwise.
	ExecTx(ctx context.Context, fn TxFn) error
}
