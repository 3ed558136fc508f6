package mining

import (
	"smartcart/domain/basket"
	"smartcart/domain/rules"
)

// Miner runs level-wise Apriori search over a basket matrix.
type Miner struct{}

// NewMiner creates a new itemset miner
func NewMiner() *Miner {
	return &Miner{}
}

// Mine returns every itemset whose support over all orders is at least
// minSupport. Level k candidates are built only from frequent (k−1)-itemsets
// and pruned before counting: a candidate with any infrequent (k−1)-subset
// cannot itself be frequent, so it never costs a matrix scan.
//
// minSupport <= 0 disables pruning entirely and degenerates to exhaustive
// enumeration of every co-occurring itemset; bounding that cost is the
// caller's responsibility. An empty matrix yields an empty result.
func (m *Miner) Mine(matrix *basket.Matrix, minSupport float64) []rules.FrequentItemset {
	if matrix == nil || matrix.OrderCount() == 0 || matrix.ProductCount() == 0 {
		return nil
	}

	n := matrix.ProductCount()
	var frequent []rules.FrequentItemset
	supports := make(map[string]float64)

	// Level 1: every single product clearing the threshold. The matrix never
	// materializes a zero-occurrence column, so every singleton has
	// support > 0.
	singletons := make([]int, 0, n)
	var level []rules.FrequentItemset
	for col := 0; col < n; col++ {
		items := basket.NewProductSet(n)
		items.Add(col)
		support := matrix.Support(items)
		if support >= minSupport {
			itemset := rules.FrequentItemset{Items: items, Support: support}
			level = append(level, itemset)
			supports[items.Key()] = support
			singletons = append(singletons, col)
		}
	}
	frequent = append(frequent, level...)

	// Level k: extend each frequent (k−1)-itemset with one frequent singleton
	// above its highest column, so every candidate is generated exactly once
	// and candidate order stays deterministic.
	for len(level) > 0 {
		var next []rules.FrequentItemset
		for _, prev := range level {
			members := prev.Items.Members()
			maxCol := members[len(members)-1]
			for _, col := range singletons {
				if col <= maxCol {
					continue
				}
				candidate := prev.Items.With(col)
				if !m.allSubsetsFrequent(candidate, supports) {
					continue
				}
				support := matrix.Support(candidate)
				if support >= minSupport {
					itemset := rules.FrequentItemset{Items: candidate, Support: support}
					next = append(next, itemset)
					supports[candidate.Key()] = support
				}
			}
		}
		frequent = append(frequent, next...)
		level = next
	}

	return frequent
}

// allSubsetsFrequent checks the Apriori monotonicity prune: every
// (k−1)-subset of candidate must already be frequent.
func (m *Miner) allSubsetsFrequent(candidate basket.ProductSet, supports map[string]float64) bool {
	for _, col := range candidate.Members() {
		subset := candidate.Without(col)
		if _, ok := supports[subset.Key()]; !ok {
			return false
		}
	}
	return true
}
