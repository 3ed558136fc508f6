package ports

import (
	"context"

	"smartcart/domain/transaction"
)

// TransactionSource supplies the raw transaction rows for one analysis
// session. Implementations own validation and hygiene; the core assumes the
// returned rows carry all keys and non-negative quantities.
type TransactionSource interface {
	// Transactions returns every transaction row in the source.
	Transactions(ctx context.Context) ([]transaction.Transaction, error)
}
