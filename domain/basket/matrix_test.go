package basket

import (
	"math"
	"testing"

	"smartcart/domain/transaction"
)

func TestBuildMatrix_Basic(t *testing.T) {
	m := BuildMatrix(exampleRows())

	if m.OrderCount() != 4 {
		t.Fatalf("expected 4 orders, got %d", m.OrderCount())
	}
	if m.ProductCount() != 3 {
		t.Fatalf("expected 3 products, got %d", m.ProductCount())
	}

	// Product domain is sorted for stable column ordering.
	want := []string{"apples", "bananas", "cherries"}
	for i, name := range want {
		if m.Products[i] != name {
			t.Errorf("product %d: expected %s, got %s", i, name, m.Products[i])
		}
	}

	col, ok := m.ProductIndex("bananas")
	if !ok {
		t.Fatal("expected bananas column")
	}
	set := NewProductSet(m.ProductCount())
	set.Add(col)
	if got := m.Support(set); got != 0.75 {
		t.Errorf("expected bananas support 0.75, got %g", got)
	}
}

func TestBuildMatrix_ZeroQuantityColumnNeverMaterialized(t *testing.T) {
	rows := []transaction.Transaction{
		{OrderID: "O1", Product: "apples", Quantity: 2, CustomerID: 1},
		{OrderID: "O1", Product: "ghost", Quantity: 0, CustomerID: 1},
	}
	m := BuildMatrix(rows)

	if _, ok := m.ProductIndex("ghost"); ok {
		t.Error("zero-quantity product must not become a column")
	}
	// Every materialized column has at least one presence.
	for col := range m.Products {
		set := NewProductSet(m.ProductCount())
		set.Add(col)
		if m.SupportCount(set) == 0 {
			t.Errorf("column %s has no presence", m.Products[col])
		}
	}
}

func TestBuildMatrix_Deterministic(t *testing.T) {
	a := BuildMatrix(exampleRows())

	// Same rows in reversed input order.
	rows := exampleRows()
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	b := BuildMatrix(rows)

	if len(a.Products) != len(b.Products) || len(a.Orders) != len(b.Orders) {
		t.Fatal("domains differ across input orderings")
	}
	for i := range a.Products {
		if a.Products[i] != b.Products[i] {
			t.Errorf("product column %d differs: %s vs %s", i, a.Products[i], b.Products[i])
		}
	}
	for i := range a.Rows {
		if !a.Rows[i].Equal(b.Rows[i]) {
			t.Errorf("row %d differs across input orderings", i)
		}
	}
}

func TestBuildQuantityMatrix_SumsPerCustomer(t *testing.T) {
	rows := []transaction.Transaction{
		{OrderID: "O1", Product: "apples", Quantity: 2, CustomerID: 7},
		{OrderID: "O2", Product: "apples", Quantity: 3, CustomerID: 7},
		{OrderID: "O3", Product: "bananas", Quantity: 1, CustomerID: 9},
	}
	m := BuildQuantityMatrix(rows)

	i, _ := m.CustomerIndex(7)
	j, _ := m.ProductIndex("apples")
	if got := m.Data[i][j]; got != 5 {
		t.Errorf("expected summed quantity 5, got %g", got)
	}

	totals := m.ProductTotals()
	if totals[j] != 5 {
		t.Errorf("expected apples total 5, got %g", totals[j])
	}
}

func TestQuantityMatrix_NormalizedByMax(t *testing.T) {
	m := BuildQuantityMatrix([]transaction.Transaction{
		{OrderID: "O1", Product: "apples", Quantity: 4, CustomerID: 1},
		{OrderID: "O2", Product: "apples", Quantity: 2, CustomerID: 2},
	})
	norm := m.NormalizedByMax(1e-8)

	i, _ := m.CustomerIndex(1)
	j, _ := m.ProductIndex("apples")
	if got := norm[i][j]; math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected ~1.0, got %g", got)
	}

	t.Run("all-zero matrix stays finite", func(t *testing.T) {
		zero := BuildQuantityMatrix([]transaction.Transaction{
			{OrderID: "O1", Product: "apples", Quantity: 0, CustomerID: 1},
		})
		for _, row := range zero.NormalizedByMax(1e-8) {
			for _, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatal("normalization produced non-finite value")
				}
			}
		}
	})
}

func TestQuantityMatrix_FilterSparse(t *testing.T) {
	rows := []transaction.Transaction{
		{OrderID: "O1", Product: "apples", Quantity: 1, CustomerID: 1},
		{OrderID: "O1", Product: "bananas", Quantity: 1, CustomerID: 1},
		{OrderID: "O2", Product: "apples", Quantity: 1, CustomerID: 2},
		// Customer 3 interacted with one product only.
		{OrderID: "O3", Product: "cherries", Quantity: 1, CustomerID: 3},
	}
	m := BuildQuantityMatrix(rows)
	filtered := m.FilterSparse(2, 1)

	if filtered.CustomerCount() != 1 {
		t.Fatalf("expected 1 customer after filtering, got %d", filtered.CustomerCount())
	}
	if _, ok := filtered.CustomerIndex(1); !ok {
		t.Error("expected customer 1 to survive filtering")
	}
	// cherries lost its only buyer, apples lost one of two.
	if _, ok := filtered.ProductIndex("cherries"); ok {
		t.Error("expected cherries to be filtered out")
	}
}

func TestProductSet_Operations(t *testing.T) {
	s := NewProductSet(130)
	s.Add(0)
	s.Add(64)
	s.Add(129)

	if s.Count() != 3 {
		t.Fatalf("expected 3 members, got %d", s.Count())
	}
	members := s.Members()
	for i, want := range []int{0, 64, 129} {
		if members[i] != want {
			t.Errorf("member %d: expected %d, got %d", i, want, members[i])
		}
	}

	sub := NewProductSet(130)
	sub.Add(64)
	if !s.ContainsAll(sub) {
		t.Error("expected subset check to pass")
	}
	if sub.ContainsAll(s) {
		t.Error("superset must not pass subset check")
	}

	// Keys are domain-size independent.
	small := NewProductSet(65)
	small.Add(64)
	if small.Key() != sub.Key() {
		t.Error("equal sets from different domain sizes must share a key")
	}
	if !small.Equal(sub) {
		t.Error("equal sets from different domain sizes must be Equal")
	}

	if s.Without(64).Contains(64) {
		t.Error("Without must clear the bit")
	}
	if !s.Contains(64) {
		t.Error("Without must not mutate the receiver")
	}
}

// exampleRows is the four-order scenario used across the mining tests:
// O1:{apples,bananas} O2:{apples,bananas} O3:{apples,cherries}
// O4:{bananas,cherries}.
func exampleRows() []transaction.Transaction {
	return []transaction.Transaction{
		{OrderID: "O1", Product: "apples", Quantity: 1, CustomerID: 1},
		{OrderID: "O1", Product: "bananas", Quantity: 2, CustomerID: 1},
		{OrderID: "O2", Product: "apples", Quantity: 1, CustomerID: 2},
		{OrderID: "O2", Product: "bananas", Quantity: 1, CustomerID: 2},
		{OrderID: "O3", Product: "apples", Quantity: 3, CustomerID: 3},
		{OrderID: "O3", Product: "cherries", Quantity: 1, CustomerID: 3},
		{OrderID: "O4", Product: "bananas", Quantity: 1, CustomerID: 4},
		{OrderID: "O4", Product: "cherries", Quantity: 2, CustomerID: 4},
	}
}
