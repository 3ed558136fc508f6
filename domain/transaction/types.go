package transaction

import "strings"

// OrderID identifies one basket. Multiple transaction rows share an OrderID.
type OrderID string

// CustomerID identifies a customer across orders.
type CustomerID int64

// Transaction is one raw transaction row: one product within one order.
type Transaction struct {
	OrderID    OrderID    `json:"order_id" db:"order_id"`
	Product    string     `json:"product" db:"product"`
	Quantity   float64    `json:"quantity" db:"quantity"`
	CustomerID CustomerID `json:"customer_id" db:"customer_id"`
}

// IsValid reports whether the row carries all required keys.
func (t Transaction) IsValid() bool {
	return t.OrderID != "" && strings.TrimSpace(t.Product) != ""
}

// Sanitize applies ingestion hygiene to raw rows: rows with missing keys are
// dropped, unparseable (NaN) quantities default to 1 and negative quantities
// clamp to 0. The analysis core assumes clean input; sources (SQL, generators)
// run their rows through here first.
func Sanitize(rows []Transaction) []Transaction {
	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		if !row.IsValid() {
			continue
		}
		if row.Quantity != row.Quantity { // NaN
			row.Quantity = 1
		}
		if row.Quantity < 0 {
			row.Quantity = 0
		}
		out = append(out, row)
	}
	return out
}
