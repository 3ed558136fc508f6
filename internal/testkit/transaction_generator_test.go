package testkit

import (
	"testing"
)

func TestGenerate_Shape(t *testing.T) {
	g := NewTransactionGenerator(DefaultGeneratorConfig())
	rows := g.Generate()

	if len(rows) == 0 {
		t.Fatal("expected generated transactions")
	}

	customers := make(map[int64]bool)
	orders := make(map[string]bool)
	products := make(map[string]bool)
	for _, row := range rows {
		if !row.IsValid() {
			t.Fatalf("generated invalid row: %+v", row)
		}
		if row.Quantity < 1 || row.Quantity > 3 {
			t.Errorf("quantity out of range: %g", row.Quantity)
		}
		customers[int64(row.CustomerID)] = true
		orders[string(row.OrderID)] = true
		products[row.Product] = true
	}

	cfg := DefaultGeneratorConfig()
	if len(customers) != cfg.CustomerCount {
		t.Errorf("expected %d customers, got %d", cfg.CustomerCount, len(customers))
	}
	if len(products) > cfg.ProductCount {
		t.Errorf("product domain exceeds catalog: %d > %d", len(products), cfg.ProductCount)
	}
	if len(orders) < cfg.CustomerCount {
		t.Errorf("expected at least one order per customer, got %d orders", len(orders))
	}
}

func TestGenerate_SeededDeterminism(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	a := NewTransactionGenerator(cfg).Generate()
	b := NewTransactionGenerator(cfg).Generate()

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs across seeded runs: %+v vs %+v", i, a[i], b[i])
		}
	}

	t.Run("different seed, different data", func(t *testing.T) {
		cfg.Seed = 7
		c := NewTransactionGenerator(cfg).Generate()
		same := len(a) == len(c)
		if same {
			for i := range a {
				if a[i] != c[i] {
					same = false
					break
				}
			}
		}
		if same {
			t.Error("expected different output under a different seed")
		}
	})
}

func TestGenerate_NoDuplicateProductsPerOrder(t *testing.T) {
	rows := NewTransactionGenerator(DefaultGeneratorConfig()).Generate()

	type key struct {
		order   string
		product string
	}
	seen := make(map[key]bool)
	for _, row := range rows {
		k := key{string(row.OrderID), row.Product}
		if seen[k] {
			t.Fatalf("order %s lists %s twice", row.OrderID, row.Product)
		}
		seen[k] = true
	}
}
