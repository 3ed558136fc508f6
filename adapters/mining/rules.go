package mining

import (
	"smartcart/domain/basket"
	"smartcart/domain/rules"
)

// maxSplitItems bounds antecedent/consequent enumeration. Splits are
// enumerated with a bitmask over the itemset members, so itemsets beyond
// this size would overflow the mask; they do not occur at any practical
// support threshold.
const maxSplitItems = 62

// RuleGenerator derives directional association rules from mined itemsets.
type RuleGenerator struct{}

// NewRuleGenerator creates a new rule generator
func NewRuleGenerator() *RuleGenerator {
	return &RuleGenerator{}
}

// Generate partitions every frequent itemset of size >= 2 into each proper
// non-empty (antecedent, consequent) split and keeps the splits whose
// confidence clears minConfidence. Lift uses the consequent's own support
// from the frequent table; a split whose consequent (or antecedent) is not
// in the table is skipped, not errored — under a positive support threshold
// monotonicity guarantees both are present.
//
// Enumeration order is deterministic for fixed input: itemsets in mined
// order, splits in ascending mask order. Downstream consumers needing a
// metric order must sort explicitly.
func (g *RuleGenerator) Generate(itemsets []rules.FrequentItemset, minConfidence float64) []rules.Rule {
	supports := make(map[string]float64, len(itemsets))
	for _, itemset := range itemsets {
		supports[itemset.Items.Key()] = itemset.Support
	}

	var out []rules.Rule
	for _, itemset := range itemsets {
		members := itemset.Items.Members()
		if len(members) < 2 || len(members) > maxSplitItems {
			continue
		}

		for mask := uint64(1); mask < uint64(1)<<uint(len(members))-1; mask++ {
			if rule, ok := g.split(itemset, members, mask, supports, minConfidence); ok {
				out = append(out, rule)
			}
		}
	}
	return out
}

// split builds the rule for one antecedent mask over the itemset members.
func (g *RuleGenerator) split(itemset rules.FrequentItemset, members []int, mask uint64, supports map[string]float64, minConfidence float64) (rules.Rule, bool) {
	domain := members[len(members)-1] + 1
	antecedent := basket.NewProductSet(domain)
	consequent := basket.NewProductSet(domain)
	for i, col := range members {
		if mask&(1<<uint(i)) != 0 {
			antecedent.Add(col)
		} else {
			consequent.Add(col)
		}
	}

	antecedentSupport, ok := supports[antecedent.Key()]
	if !ok || antecedentSupport == 0 {
		return rules.Rule{}, false
	}
	consequentSupport, ok := supports[consequent.Key()]
	if !ok || consequentSupport == 0 {
		return rules.Rule{}, false
	}

	confidence := itemset.Support / antecedentSupport
	if confidence < minConfidence {
		return rules.Rule{}, false
	}

	return rules.Rule{
		Antecedent: antecedent,
		Consequent: consequent,
		Support:    itemset.Support,
		Confidence: confidence,
		Lift:       confidence / consequentSupport,
	}, true
}
