package basket

import (
	"sort"

	"smartcart/domain/transaction"
)

// Matrix is the binary order×product basket matrix: one row per order, one
// column per distinct product that occurs in at least one order with
// quantity > 0. Rows are stored as product bitsets. The matrix is built once
// per analysis and immutable afterward; order and product domains are sorted
// so indexing is stable across runs on identical input.
type Matrix struct {
	Orders   []transaction.OrderID
	Products []string
	Rows     []ProductSet

	productIdx map[string]int
}

// BuildMatrix converts raw transaction rows into a basket matrix. Products
// that never occur with quantity > 0 are not materialized as columns.
func BuildMatrix(rows []transaction.Transaction) *Matrix {
	// Sum quantities per (order, product) first: the same product can appear
	// on multiple rows of one order.
	orderQty := make(map[transaction.OrderID]map[string]float64)
	for _, row := range rows {
		if !row.IsValid() {
			continue
		}
		products, ok := orderQty[row.OrderID]
		if !ok {
			products = make(map[string]float64)
			orderQty[row.OrderID] = products
		}
		products[row.Product] += row.Quantity
	}

	productSeen := make(map[string]bool)
	for _, products := range orderQty {
		for name, qty := range products {
			if qty > 0 {
				productSeen[name] = true
			}
		}
	}

	m := &Matrix{
		Orders:     make([]transaction.OrderID, 0, len(orderQty)),
		Products:   make([]string, 0, len(productSeen)),
		productIdx: make(map[string]int, len(productSeen)),
	}
	for name := range productSeen {
		m.Products = append(m.Products, name)
	}
	sort.Strings(m.Products)
	for i, name := range m.Products {
		m.productIdx[name] = i
	}

	for orderID := range orderQty {
		m.Orders = append(m.Orders, orderID)
	}
	sort.Slice(m.Orders, func(i, j int) bool { return m.Orders[i] < m.Orders[j] })

	m.Rows = make([]ProductSet, len(m.Orders))
	for i, orderID := range m.Orders {
		row := NewProductSet(len(m.Products))
		for name, qty := range orderQty[orderID] {
			if qty > 0 {
				row.Add(m.productIdx[name])
			}
		}
		m.Rows[i] = row
	}

	return m
}

// OrderCount returns the number of orders (matrix rows).
func (m *Matrix) OrderCount() int {
	return len(m.Orders)
}

// ProductCount returns the number of products (matrix columns).
func (m *Matrix) ProductCount() int {
	return len(m.Products)
}

// ProductIndex resolves a product name to its column.
func (m *Matrix) ProductIndex(name string) (int, bool) {
	i, ok := m.productIdx[name]
	return i, ok
}

// SupportCount returns the number of orders containing every product of set.
func (m *Matrix) SupportCount(set ProductSet) int {
	n := 0
	for _, row := range m.Rows {
		if row.ContainsAll(set) {
			n++
		}
	}
	return n
}

// Support returns the fraction of orders containing every product of set.
func (m *Matrix) Support(set ProductSet) float64 {
	if len(m.Rows) == 0 {
		return 0
	}
	return float64(m.SupportCount(set)) / float64(len(m.Rows))
}

// ProductNames renders the members of set as sorted product names.
func (m *Matrix) ProductNames(set ProductSet) []string {
	members := set.Members()
	out := make([]string, len(members))
	for i, col := range members {
		out[i] = m.Products[col]
	}
	return out
}
