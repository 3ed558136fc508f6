package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"smartcart/domain/transaction"
	"smartcart/ports"
)

// transactionSource reads transaction rows from a SQL table. Model state is
// never persisted (the analysis stays in-memory per session); this adapter
// is input-side plumbing only.
type transactionSource struct {
	db    *sqlx.DB
	table string
}

// NewTransactionSource creates a transaction source over an open connection.
func NewTransactionSource(db *sqlx.DB, table string) ports.TransactionSource {
	if table == "" {
		table = "transactions"
	}
	return &transactionSource{db: db, table: table}
}

// Open connects to the database and returns a transaction source over it.
func Open(url, table string) (ports.TransactionSource, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewTransactionSource(db, table), nil
}

// Transactions reads every transaction row and applies ingestion hygiene.
func (s *transactionSource) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	query := fmt.Sprintf(`SELECT
		order_id, product, COALESCE(quantity, 1) AS quantity, customer_id
	FROM %s ORDER BY order_id, product`, s.table)

	var rows []transaction.Transaction
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return transaction.Sanitize(rows), nil
}
