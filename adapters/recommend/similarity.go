package recommend

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"smartcart/domain/basket"
	"smartcart/domain/transaction"
)

// NormEpsilon pads the global-max denominator so an all-zero quantity matrix
// normalizes to zeros instead of dividing by zero.
const NormEpsilon = 1e-8

// SimilarityModel holds the user-user and item-item cosine similarity
// matrices computed at fit time, plus the id↔index arrays captured with them.
// Both matrices are symmetric with diagonal 1. The model is an immutable
// snapshot; a refit builds a new one.
type SimilarityModel struct {
	Customers []transaction.CustomerID
	Products  []string
	UserSim   [][]float64
	ItemSim   [][]float64

	customerIdx map[transaction.CustomerID]int
	productIdx  map[string]int
}

// FitSimilarity computes both similarity matrices from the quantity matrix.
// Every cell is first divided by the global maximum (plus NormEpsilon) so
// high-volume customers and products do not dominate scale. Row pairs are
// computed with bounded parallelism; the call itself is synchronous and the
// only possible error is context cancellation.
func FitSimilarity(ctx context.Context, m *basket.QuantityMatrix) (*SimilarityModel, error) {
	normalized := m.NormalizedByMax(NormEpsilon)

	// Item vectors are the columns of the normalized matrix.
	itemVectors := make([][]float64, m.ProductCount())
	for j := range itemVectors {
		itemVectors[j] = make([]float64, m.CustomerCount())
		for i := range normalized {
			itemVectors[j][i] = normalized[i][j]
		}
	}

	userSim, err := pairwiseCosine(ctx, normalized)
	if err != nil {
		return nil, err
	}
	itemSim, err := pairwiseCosine(ctx, itemVectors)
	if err != nil {
		return nil, err
	}

	model := &SimilarityModel{
		Customers:   m.Customers,
		Products:    m.Products,
		UserSim:     userSim,
		ItemSim:     itemSim,
		customerIdx: make(map[transaction.CustomerID]int, len(m.Customers)),
		productIdx:  make(map[string]int, len(m.Products)),
	}
	for i, id := range m.Customers {
		model.customerIdx[id] = i
	}
	for j, name := range m.Products {
		model.productIdx[name] = j
	}
	return model, nil
}

// CustomerIndex resolves a customer id to its similarity row.
func (s *SimilarityModel) CustomerIndex(id transaction.CustomerID) (int, bool) {
	i, ok := s.customerIdx[id]
	return i, ok
}

// ProductIndex resolves a product name to its similarity row.
func (s *SimilarityModel) ProductIndex(name string) (int, bool) {
	i, ok := s.productIdx[name]
	return i, ok
}

// pairwiseCosine computes the symmetric cosine similarity matrix of the
// vectors. The diagonal is fixed at 1 (self-similarity), including for
// zero-magnitude vectors; off-diagonal pairs involving a zero-magnitude
// vector are 0. One goroutine per row, bounded by a weighted semaphore;
// each goroutine writes a disjoint set of cells.
func pairwiseCosine(ctx context.Context, vectors [][]float64) ([][]float64, error) {
	n := len(vectors)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	norms := make([]float64, n)
	for i, vec := range vectors {
		norms[i] = math.Sqrt(dot(vec, vec))
	}

	sem := semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			sim[i][i] = 1
			for j := i + 1; j < n; j++ {
				v := 0.0
				if norms[i] > 0 && norms[j] > 0 {
					v = dot(vectors[i], vectors[j]) / (norms[i] * norms[j])
				}
				sim[i][j] = v
				sim[j][i] = v
			}
		}(i)
	}
	wg.Wait()
	return sim, nil
}

// dot computes the dot product of two equal-length vectors.
func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
