package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"smartcart/domain/transaction"
)

// GeneratorConfig configures the synthetic transaction generator
type GeneratorConfig struct {
	CustomerCount        int     `json:"customer_count"`
	ProductCount         int     `json:"product_count"`
	AvgOrdersPerCustomer float64 `json:"avg_orders_per_customer"`
	AvgBasketSize        float64 `json:"avg_basket_size"`
	// BundleCount is how many product affinity bundles to plant; orders
	// drawn from a bundle make association rules discoverable.
	BundleCount int     `json:"bundle_count"`
	BundleBias  float64 `json:"bundle_bias"`
	Seed        int64   `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for test fixtures
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		CustomerCount:        50,
		ProductCount:         30,
		AvgOrdersPerCustomer: 2.5,
		AvgBasketSize:        3.0,
		BundleCount:          5,
		BundleBias:           0.6,
		Seed:                 42,
	}
}

// TransactionGenerator generates seeded synthetic e-commerce transactions
// with planted product affinities, so mined rules and recommendations are
// non-trivial but reproducible.
type TransactionGenerator struct {
	config  GeneratorConfig
	rng     *rand.Rand
	bundles [][]string
}

// NewTransactionGenerator creates a new transaction generator
func NewTransactionGenerator(config GeneratorConfig) *TransactionGenerator {
	g := &TransactionGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	g.plantBundles()
	return g
}

// plantBundles assigns each bundle three consecutive products, wrapping
// around the catalog.
func (g *TransactionGenerator) plantBundles() {
	for b := 0; b < g.config.BundleCount; b++ {
		bundle := make([]string, 0, 3)
		for k := 0; k < 3; k++ {
			bundle = append(bundle, g.productName((b*3+k)%g.config.ProductCount))
		}
		g.bundles = append(g.bundles, bundle)
	}
}

// Generate produces the complete transaction set.
func (g *TransactionGenerator) Generate() []transaction.Transaction {
	var rows []transaction.Transaction
	orderSeq := 0

	for c := 0; c < g.config.CustomerCount; c++ {
		customerID := transaction.CustomerID(1000 + c)

		orderCount := int(math.Round(g.config.AvgOrdersPerCustomer + g.rng.NormFloat64()*0.5))
		if orderCount < 1 {
			orderCount = 1
		}
		for o := 0; o < orderCount; o++ {
			orderSeq++
			orderID := transaction.OrderID(fmt.Sprintf("order_%05d", orderSeq))
			rows = append(rows, g.generateOrder(orderID, customerID)...)
		}
	}
	return rows
}

// generateOrder fills one basket, biased toward a planted bundle.
func (g *TransactionGenerator) generateOrder(orderID transaction.OrderID, customerID transaction.CustomerID) []transaction.Transaction {
	products := make(map[string]bool)

	if len(g.bundles) > 0 && g.rng.Float64() < g.config.BundleBias {
		for _, name := range g.bundles[g.rng.Intn(len(g.bundles))] {
			products[name] = true
		}
	}

	size := int(math.Round(g.config.AvgBasketSize + g.rng.NormFloat64()))
	if size < 1 {
		size = 1
	}
	for len(products) < size {
		products[g.productName(g.rng.Intn(g.config.ProductCount))] = true
	}

	// Emit in sorted product order so fixtures are byte-identical across runs.
	names := make([]string, 0, len(products))
	for name := range products {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]transaction.Transaction, 0, len(names))
	for _, name := range names {
		rows = append(rows, transaction.Transaction{
			OrderID:    orderID,
			Product:    name,
			Quantity:   float64(1 + g.rng.Intn(3)),
			CustomerID: customerID,
		})
	}
	return rows
}

func (g *TransactionGenerator) productName(i int) string {
	return fmt.Sprintf("product_%03d", i+1)
}
