package basket

import (
	"math"
	"sort"

	"smartcart/domain/transaction"
)

// QuantityMatrix is the customer×product interaction matrix: cell (i, j) is
// the total quantity customer i purchased of product j. Unlike Matrix it is
// not binarized; similarity and factorization consume the raw quantities.
type QuantityMatrix struct {
	Customers []transaction.CustomerID
	Products  []string
	Data      [][]float64

	customerIdx map[transaction.CustomerID]int
	productIdx  map[string]int
}

// BuildQuantityMatrix converts raw transaction rows into a quantity matrix.
// Customer and product domains are sorted for stable indexing.
func BuildQuantityMatrix(rows []transaction.Transaction) *QuantityMatrix {
	customerSeen := make(map[transaction.CustomerID]bool)
	productSeen := make(map[string]bool)
	for _, row := range rows {
		if !row.IsValid() {
			continue
		}
		customerSeen[row.CustomerID] = true
		productSeen[row.Product] = true
	}

	m := &QuantityMatrix{
		Customers:   make([]transaction.CustomerID, 0, len(customerSeen)),
		Products:    make([]string, 0, len(productSeen)),
		customerIdx: make(map[transaction.CustomerID]int, len(customerSeen)),
		productIdx:  make(map[string]int, len(productSeen)),
	}
	for id := range customerSeen {
		m.Customers = append(m.Customers, id)
	}
	sort.Slice(m.Customers, func(i, j int) bool { return m.Customers[i] < m.Customers[j] })
	for i, id := range m.Customers {
		m.customerIdx[id] = i
	}
	for name := range productSeen {
		m.Products = append(m.Products, name)
	}
	sort.Strings(m.Products)
	for i, name := range m.Products {
		m.productIdx[name] = i
	}

	m.Data = make([][]float64, len(m.Customers))
	for i := range m.Data {
		m.Data[i] = make([]float64, len(m.Products))
	}
	for _, row := range rows {
		if !row.IsValid() {
			continue
		}
		m.Data[m.customerIdx[row.CustomerID]][m.productIdx[row.Product]] += row.Quantity
	}

	return m
}

// CustomerCount returns the number of customers (matrix rows).
func (m *QuantityMatrix) CustomerCount() int {
	return len(m.Customers)
}

// ProductCount returns the number of products (matrix columns).
func (m *QuantityMatrix) ProductCount() int {
	return len(m.Products)
}

// CustomerIndex resolves a customer id to its row.
func (m *QuantityMatrix) CustomerIndex(id transaction.CustomerID) (int, bool) {
	i, ok := m.customerIdx[id]
	return i, ok
}

// ProductIndex resolves a product name to its column.
func (m *QuantityMatrix) ProductIndex(name string) (int, bool) {
	i, ok := m.productIdx[name]
	return i, ok
}

// Row returns customer row i. The returned slice aliases the matrix; callers
// must not mutate it.
func (m *QuantityMatrix) Row(i int) []float64 {
	return m.Data[i]
}

// Max returns the global maximum cell value.
func (m *QuantityMatrix) Max() float64 {
	max := 0.0
	for _, row := range m.Data {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// NormalizedByMax returns a copy of the matrix with every cell divided by the
// global maximum plus eps. The epsilon keeps an all-zero matrix from dividing
// by zero; high-volume customers no longer dominate scale afterwards.
func (m *QuantityMatrix) NormalizedByMax(eps float64) [][]float64 {
	denom := m.Max() + eps
	out := make([][]float64, len(m.Data))
	for i, row := range m.Data {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v / denom
		}
	}
	return out
}

// NormalizedMinMax returns a copy of the matrix min-max scaled to [0, 1].
// A constant matrix is returned unchanged.
func (m *QuantityMatrix) NormalizedMinMax() [][]float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range m.Data {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	out := make([][]float64, len(m.Data))
	for i, row := range m.Data {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
		if max > min {
			for j := range out[i] {
				out[i][j] = (out[i][j] - min) / (max - min)
			}
		}
	}
	return out
}

// NormalizedZScore returns a copy of the matrix centered on the global mean
// and scaled by the global standard deviation. A zero-variance matrix is
// returned unchanged.
func (m *QuantityMatrix) NormalizedZScore() [][]float64 {
	n := 0
	sum := 0.0
	for _, row := range m.Data {
		for _, v := range row {
			sum += v
			n++
		}
	}
	out := make([][]float64, len(m.Data))
	if n == 0 {
		return out
	}
	mean := sum / float64(n)
	sumSq := 0.0
	for _, row := range m.Data {
		for _, v := range row {
			diff := v - mean
			sumSq += diff * diff
		}
	}
	std := math.Sqrt(sumSq / float64(n))
	for i, row := range m.Data {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
		if std > 0 {
			for j := range out[i] {
				out[i][j] = (out[i][j] - mean) / std
			}
		}
	}
	return out
}

// ProductTotals returns the quantity of each product summed across all
// customers. This is the popularity signal used for cold-start fallback.
func (m *QuantityMatrix) ProductTotals() []float64 {
	totals := make([]float64, len(m.Products))
	for _, row := range m.Data {
		for j, v := range row {
			totals[j] += v
		}
	}
	return totals
}

// FilterSparse returns a copy of the matrix without customers holding fewer
// than minCustomerInteractions purchased products and without products
// purchased by fewer than minProductInteractions of the remaining customers.
// Customers are filtered first, matching the original two-pass order.
func (m *QuantityMatrix) FilterSparse(minCustomerInteractions, minProductInteractions int) *QuantityMatrix {
	keptCustomers := make([]int, 0, len(m.Customers))
	for i, row := range m.Data {
		interactions := 0
		for _, v := range row {
			if v > 0 {
				interactions++
			}
		}
		if interactions >= minCustomerInteractions {
			keptCustomers = append(keptCustomers, i)
		}
	}

	keptProducts := make([]int, 0, len(m.Products))
	for j := range m.Products {
		interactions := 0
		for _, i := range keptCustomers {
			if m.Data[i][j] > 0 {
				interactions++
			}
		}
		if interactions >= minProductInteractions {
			keptProducts = append(keptProducts, j)
		}
	}

	out := &QuantityMatrix{
		Customers:   make([]transaction.CustomerID, len(keptCustomers)),
		Products:    make([]string, len(keptProducts)),
		Data:        make([][]float64, len(keptCustomers)),
		customerIdx: make(map[transaction.CustomerID]int, len(keptCustomers)),
		productIdx:  make(map[string]int, len(keptProducts)),
	}
	for newJ, j := range keptProducts {
		out.Products[newJ] = m.Products[j]
		out.productIdx[m.Products[j]] = newJ
	}
	for newI, i := range keptCustomers {
		out.Customers[newI] = m.Customers[i]
		out.customerIdx[m.Customers[i]] = newI
		out.Data[newI] = make([]float64, len(keptProducts))
		for newJ, j := range keptProducts {
			out.Data[newI][newJ] = m.Data[i][j]
		}
	}
	return out
}
