package dbmetrics

import "context"

type txExecutorKey struct{}

// WithExecutor returns a context carrying an active transaction executor.
// Repositories pick it up via GetExecutor so the same code path works
// with and without a surrounding transaction.
func WithExecutor(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txExecutorKey{}, tx)
}

// GetExecutor returns the transaction executor from the context,
// or the fallback when no transaction is active.
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txExecutorKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction reports whether the context carries an active transaction.
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txExecutorKey{}).(TxExecutor)
	return ok
}
