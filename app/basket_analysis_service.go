package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"smartcart/adapters/mining"
	"smartcart/domain/basket"
	"smartcart/domain/core"
	"smartcart/domain/rules"
	"smartcart/domain/transaction"
	"smartcart/internal"
)

// BasketAnalysisConfig holds the mining thresholds.
type BasketAnalysisConfig struct {
	// MinSupport is the minimum fraction of orders an itemset must appear
	// in, in (0, 1].
	MinSupport float64
	// MinConfidence is the minimum conditional probability a rule must
	// reach, in (0, 1].
	MinConfidence float64
}

// DefaultBasketAnalysisConfig returns the default thresholds.
func DefaultBasketAnalysisConfig() BasketAnalysisConfig {
	return BasketAnalysisConfig{
		MinSupport:    0.1,
		MinConfidence: 0.5,
	}
}

// Validate checks both thresholds are in (0, 1].
func (c BasketAnalysisConfig) Validate() error {
	if c.MinSupport <= 0 || c.MinSupport > 1 {
		return core.NewConfigError("min_support", core.ErrInvalidSupport)
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		return core.NewConfigError("min_confidence", core.ErrInvalidConfidence)
	}
	return nil
}

// BasketAnalysisService owns the market basket analysis lifecycle: it mines
// frequent itemsets and association rules at fit time and serves ranking,
// filtering and aggregation queries over that immutable derived state.
//
// A refit (new data or new thresholds) fully replaces the derived state;
// there is no incremental update. The service does no locking: a concurrent
// host must serialize Fit against queries on the same instance.
type BasketAnalysisService struct {
	cfg       BasketAnalysisConfig
	miner     *mining.Miner
	generator *mining.RuleGenerator
	logger    *internal.Logger

	// Derived state, replaced wholesale on each Fit.
	fitID     core.FitID
	inputHash core.InputHash
	fittedAt  core.Timestamp
	matrix    *basket.Matrix
	itemsets  []rules.FrequentItemset
	ruleSet   []rules.Rule
}

// NewBasketAnalysisService creates the service after validating thresholds.
func NewBasketAnalysisService(cfg BasketAnalysisConfig) (*BasketAnalysisService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BasketAnalysisService{
		cfg:       cfg,
		miner:     mining.NewMiner(),
		generator: mining.NewRuleGenerator(),
		logger:    internal.DefaultLogger,
	}, nil
}

// Config returns the configured thresholds.
func (s *BasketAnalysisService) Config() BasketAnalysisConfig {
	return s.cfg
}

// FitTransactions sanitizes raw rows, builds the basket matrix and fits.
func (s *BasketAnalysisService) FitTransactions(ctx context.Context, rows []transaction.Transaction) error {
	return s.Fit(ctx, basket.BuildMatrix(transaction.Sanitize(rows)))
}

// Fit mines frequent itemsets and generates association rules over the
// basket matrix. An empty matrix fits cleanly to empty derived state; every
// query then returns an empty result.
func (s *BasketAnalysisService) Fit(ctx context.Context, matrix *basket.Matrix) error {
	start := time.Now()

	itemsets := s.miner.Mine(matrix, s.cfg.MinSupport)
	ruleSet := s.generator.Generate(itemsets, s.cfg.MinConfidence)

	s.fitID = core.FitID(core.NewID())
	s.inputHash = s.fingerprint(matrix)
	s.fittedAt = core.Now()
	s.matrix = matrix
	s.itemsets = itemsets
	s.ruleSet = ruleSet

	s.logger.Info("basket analysis fit %s: %d orders, %d products, %d itemsets, %d rules in %s",
		s.fitID, matrix.OrderCount(), matrix.ProductCount(), len(itemsets), len(ruleSet), time.Since(start))
	return nil
}

// fingerprint hashes the matrix identity plus thresholds so identical input
// and thresholds can be recognized as identical derived state.
func (s *BasketAnalysisService) fingerprint(matrix *basket.Matrix) core.InputHash {
	buf := make([]byte, 0, 64)
	buf = fmt.Appendf(buf, "support=%g;confidence=%g;", s.cfg.MinSupport, s.cfg.MinConfidence)
	for _, orderID := range matrix.Orders {
		buf = append(buf, orderID...)
		buf = append(buf, ';')
	}
	for _, name := range matrix.Products {
		buf = append(buf, name...)
		buf = append(buf, ';')
	}
	for _, row := range matrix.Rows {
		buf = append(buf, row.Key()...)
	}
	return core.InputHash(core.NewHash(buf))
}

// Fitted reports whether derived state exists.
func (s *BasketAnalysisService) Fitted() bool {
	return s.matrix != nil
}

// FitID returns the identity of the current derived-state snapshot.
func (s *BasketAnalysisService) FitID() core.FitID {
	return s.fitID
}

// InputHash returns the fingerprint of the fitted input and thresholds.
func (s *BasketAnalysisService) InputHash() core.InputHash {
	return s.inputHash
}

// FittedAt returns when the current derived state was fit.
func (s *BasketAnalysisService) FittedAt() core.Timestamp {
	return s.fittedAt
}

// FrequentItemsets returns the mined itemsets in mining order.
func (s *BasketAnalysisService) FrequentItemsets() []rules.FrequentItemset {
	return s.itemsets
}

// Rules returns the generated rules in enumeration order.
func (s *BasketAnalysisService) Rules() []rules.Rule {
	return s.ruleSet
}

// TopRules returns the n best rules by the named metric. Unknown metric
// names fall back to lift. The sort is stable, so metric ties keep their
// original enumeration order.
func (s *BasketAnalysisService) TopRules(n int, metric string, ascending bool) ([]rules.Rule, error) {
	if n <= 0 {
		return nil, core.NewConfigError("n", core.ErrInvalidCount)
	}
	if len(s.ruleSet) == 0 {
		return nil, nil
	}

	m := rules.ParseMetric(metric)
	sorted := append([]rules.Rule(nil), s.ruleSet...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].Value(m) < sorted[j].Value(m)
		}
		return sorted[i].Value(m) > sorted[j].Value(m)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// RecommendationsForProduct walks rules whose antecedent contains product in
// descending lift order and emits each distinct consequent product once,
// carrying the metrics of the first (strongest) rule that produced it. The
// query product itself is never emitted.
func (s *BasketAnalysisService) RecommendationsForProduct(product string, n int) ([]rules.ProductRecommendation, error) {
	if n <= 0 {
		return nil, core.NewConfigError("n", core.ErrInvalidCount)
	}
	if !s.Fitted() || len(s.ruleSet) == 0 {
		return nil, nil
	}
	col, ok := s.matrix.ProductIndex(product)
	if !ok {
		return nil, nil
	}

	matched := make([]rules.Rule, 0)
	for _, rule := range s.ruleSet {
		if rule.Antecedent.Contains(col) {
			matched = append(matched, rule)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Lift > matched[j].Lift })

	seen := make(map[string]bool)
	out := make([]rules.ProductRecommendation, 0, n)
	for _, rule := range matched {
		for _, consequentCol := range rule.Consequent.Members() {
			name := s.matrix.Products[consequentCol]
			if name == product || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, rules.ProductRecommendation{
				Product:    name,
				Confidence: rule.Confidence,
				Lift:       rule.Lift,
				Support:    rule.Support,
			})
			if len(out) >= n {
				return out, nil
			}
		}
	}
	return out, nil
}

// FrequentlyBoughtTogether returns the top n product pairs from rules with
// single-item antecedent and consequent, by descending lift.
func (s *BasketAnalysisService) FrequentlyBoughtTogether(n int) ([]rules.Pair, error) {
	if n <= 0 {
		return nil, core.NewConfigError("n", core.ErrInvalidCount)
	}
	if !s.Fitted() || len(s.ruleSet) == 0 {
		return nil, nil
	}

	pairs := make([]rules.Pair, 0)
	for _, rule := range s.ruleSet {
		if rule.Antecedent.Count() != 1 || rule.Consequent.Count() != 1 {
			continue
		}
		pairs = append(pairs, rules.Pair{
			ProductA:   s.matrix.Products[rule.Antecedent.Members()[0]],
			ProductB:   s.matrix.Products[rule.Consequent.Members()[0]],
			Support:    rule.Support,
			Confidence: rule.Confidence,
			Lift:       rule.Lift,
		})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Lift > pairs[j].Lift })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs, nil
}

// TopBundles returns the top n frequent itemsets of two or more products by
// descending support.
func (s *BasketAnalysisService) TopBundles(n int) ([]rules.Bundle, error) {
	if n <= 0 {
		return nil, core.NewConfigError("n", core.ErrInvalidCount)
	}
	if !s.Fitted() {
		return nil, nil
	}

	bundles := make([]rules.Bundle, 0)
	for _, itemset := range s.itemsets {
		if itemset.Size() < 2 {
			continue
		}
		bundles = append(bundles, rules.Bundle{
			Products: s.matrix.ProductNames(itemset.Items),
			Support:  itemset.Support,
			Size:     itemset.Size(),
		})
	}
	sort.SliceStable(bundles, func(i, j int) bool { return bundles[i].Support > bundles[j].Support })
	if len(bundles) > n {
		bundles = bundles[:n]
	}
	return bundles, nil
}

// RulesSummary aggregates the rule set. An empty or absent rule set yields
// the zero summary, never an error.
func (s *BasketAnalysisService) RulesSummary() rules.Summary {
	if len(s.ruleSet) == 0 {
		return rules.Summary{}
	}

	confidences := make([]float64, len(s.ruleSet))
	lifts := make([]float64, len(s.ruleSet))
	for i, rule := range s.ruleSet {
		confidences[i] = rule.Confidence
		lifts[i] = rule.Lift
	}

	avgConfidence, _ := stats.Mean(confidences)
	avgLift, _ := stats.Mean(lifts)
	maxLift, _ := stats.Max(lifts)
	minConfidence, _ := stats.Min(confidences)
	maxConfidence, _ := stats.Max(confidences)

	return rules.Summary{
		TotalRules:    len(s.ruleSet),
		AvgConfidence: avgConfidence,
		AvgLift:       avgLift,
		MaxLift:       maxLift,
		MinConfidence: minConfidence,
		MaxConfidence: maxConfidence,
	}
}

// ExportRows renders every rule as a flat export row with product names
// joined by the export delimiter, in enumeration order.
func (s *BasketAnalysisService) ExportRows() []rules.ExportRow {
	if !s.Fitted() {
		return nil
	}
	out := make([]rules.ExportRow, 0, len(s.ruleSet))
	for _, rule := range s.ruleSet {
		out = append(out, rules.ExportRow{
			Antecedents: rules.RenderProducts(s.matrix.ProductNames(rule.Antecedent)),
			Consequents: rules.RenderProducts(s.matrix.ProductNames(rule.Consequent)),
			Support:     rule.Support,
			Confidence:  rule.Confidence,
			Lift:        rule.Lift,
		})
	}
	return out
}
