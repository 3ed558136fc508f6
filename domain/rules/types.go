package rules

import (
	"smartcart/domain/basket"
)

// FrequentItemset is a set of products whose joint support cleared the
// mining threshold. Items is a bitset over the basket matrix product domain;
// equality is set equality, rendering is always in sorted column order.
type FrequentItemset struct {
	Items   basket.ProductSet
	Support float64
}

// Size returns the number of products in the itemset.
func (f FrequentItemset) Size() int {
	return f.Items.Count()
}

// Rule is a directional association antecedent → consequent. Antecedent and
// consequent are non-empty and disjoint by construction.
type Rule struct {
	Antecedent basket.ProductSet
	Consequent basket.ProductSet

	// Support is P(antecedent ∪ consequent) over all orders.
	Support float64
	// Confidence is P(consequent | antecedent).
	Confidence float64
	// Lift is confidence over the consequent's own support; >1 positive
	// association, 1 independence, <1 negative association.
	Lift float64
}

// Metric names a sortable rule metric.
type Metric string

const (
	MetricSupport    Metric = "support"
	MetricConfidence Metric = "confidence"
	MetricLift       Metric = "lift"
)

// ParseMetric resolves a metric name; unknown names fall back to lift.
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricSupport, MetricConfidence, MetricLift:
		return Metric(s)
	default:
		return MetricLift
	}
}

// Value returns the rule's value for the metric.
func (r Rule) Value(m Metric) float64 {
	switch m {
	case MetricSupport:
		return r.Support
	case MetricConfidence:
		return r.Confidence
	default:
		return r.Lift
	}
}

// ProductRecommendation is one consequent product suggested for a query
// product, carrying the metrics of the strongest rule that produced it.
type ProductRecommendation struct {
	Product    string  `json:"product"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
	Support    float64 `json:"support"`
}

// Pair is a frequently-bought-together product pair from a 1→1 rule.
type Pair struct {
	ProductA   string  `json:"product_a"`
	ProductB   string  `json:"product_b"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
}

// Bundle is a frequent itemset of two or more products.
type Bundle struct {
	Products []string `json:"products"`
	Support  float64  `json:"support"`
	Size     int      `json:"size"`
}

// Summary aggregates the rule set. The zero value is the summary of an
// empty rule set.
type Summary struct {
	TotalRules    int     `json:"total_rules"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgLift       float64 `json:"avg_lift"`
	MaxLift       float64 `json:"max_lift"`
	MinConfidence float64 `json:"min_confidence"`
	MaxConfidence float64 `json:"max_confidence"`
}
