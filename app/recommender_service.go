package app

import (
	"context"
	"math"
	"sort"
	"time"

	recengine "smartcart/adapters/recommend"
	"smartcart/domain/basket"
	"smartcart/domain/core"
	"smartcart/domain/recommend"
	"smartcart/domain/transaction"
	"smartcart/internal"
)

// RecommenderConfig holds the hybrid recommender settings.
type RecommenderConfig struct {
	// NComponents is the requested factorization rank, clamped internally.
	NComponents int
	// NRecommendations is the default result size when a query passes n <= 0.
	NRecommendations int
	// SimilarityWeight and FactorWeight blend the two collaborative signals.
	// The 0.6/0.4 defaults are carried over from the original tuning; no
	// derivation is documented for them.
	SimilarityWeight float64
	FactorWeight     float64
	// MaxIterations and Seed control the factorization fit.
	MaxIterations int
	Seed          int64
}

// DefaultRecommenderConfig returns the default recommender settings.
func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		NComponents:      10,
		NRecommendations: 10,
		SimilarityWeight: 0.6,
		FactorWeight:     0.4,
		MaxIterations:    500,
		Seed:             42,
	}
}

// Validate checks counts are positive and weights non-negative.
func (c RecommenderConfig) Validate() error {
	if c.NComponents <= 0 {
		return core.NewConfigError("n_components", core.ErrInvalidCount)
	}
	if c.NRecommendations <= 0 {
		return core.NewConfigError("n_recommendations", core.ErrInvalidCount)
	}
	if c.SimilarityWeight < 0 || c.FactorWeight < 0 {
		return core.NewConfigError("weights", core.ErrInvalidWeight)
	}
	return nil
}

// RecommenderService owns the hybrid recommendation lifecycle: at fit time
// it computes the similarity matrices and the latent factor model from the
// quantity matrix, and at query time it runs a deterministic fallback chain
// over whatever signals are available.
//
// Like the basket service, derived state is an immutable snapshot replaced
// wholesale by each Fit, and the caller serializes Fit against queries.
type RecommenderService struct {
	cfg    RecommenderConfig
	logger *internal.Logger

	fitID    core.FitID
	fittedAt core.Timestamp
	matrix   *basket.QuantityMatrix
	sim      *recengine.SimilarityModel
	factors  *recengine.FactorModel
}

// NewRecommenderService creates the service after validating the config.
func NewRecommenderService(cfg RecommenderConfig) (*RecommenderService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RecommenderService{
		cfg:    cfg,
		logger: internal.DefaultLogger,
	}, nil
}

// Config returns the configured settings.
func (s *RecommenderService) Config() RecommenderConfig {
	return s.cfg
}

// FitTransactions sanitizes raw rows, builds the quantity matrix and fits.
func (s *RecommenderService) FitTransactions(ctx context.Context, rows []transaction.Transaction) error {
	return s.Fit(ctx, basket.BuildQuantityMatrix(transaction.Sanitize(rows)))
}

// Fit computes both similarity matrices and attempts the factorization. The
// factorization is best-effort: a numerical failure leaves the factor model
// degraded and the policy falls back to similarity-only scoring.
func (s *RecommenderService) Fit(ctx context.Context, matrix *basket.QuantityMatrix) error {
	start := time.Now()

	sim, err := recengine.FitSimilarity(ctx, matrix)
	if err != nil {
		return err
	}

	factorCfg := recengine.FactorConfig{
		Components:    s.cfg.NComponents,
		MaxIterations: s.cfg.MaxIterations,
		Seed:          s.cfg.Seed,
		Tolerance:     recengine.DefaultFactorConfig().Tolerance,
	}
	factors := recengine.FitFactors(matrix.NormalizedByMax(recengine.NormEpsilon), factorCfg)

	s.fitID = core.FitID(core.NewID())
	s.fittedAt = core.Now()
	s.matrix = matrix
	s.sim = sim
	s.factors = factors

	s.logger.Info("recommender fit %s: %d customers, %d products, factor model %s in %s",
		s.fitID, matrix.CustomerCount(), matrix.ProductCount(), factors.State(), time.Since(start))
	return nil
}

// Fitted reports whether derived state exists.
func (s *RecommenderService) Fitted() bool {
	return s.matrix != nil
}

// FitID returns the identity of the current derived-state snapshot.
func (s *RecommenderService) FitID() core.FitID {
	return s.fitID
}

// FittedAt returns when the current derived state was fit.
func (s *RecommenderService) FittedAt() core.Timestamp {
	return s.fittedAt
}

// FactorState returns the presence state of the latent factor model.
func (s *RecommenderService) FactorState() recengine.FactorState {
	return s.factors.State()
}

// Recommend returns up to n recommendations for a customer.
//
// Decision flow: no fitted matrix → empty; unknown customer → popularity
// cold start; otherwise a similarity-weighted score per product, blended
// with the factor reconstruction when the model is present, masked against
// repurchases, filtered to strictly positive scores, and topped up from the
// content-based tier when short. Collaborative results come first, then the
// content-based fill; tiers are never re-sorted against each other.
func (s *RecommenderService) Recommend(customerID transaction.CustomerID, n int) []recommend.Recommendation {
	if n <= 0 {
		n = s.cfg.NRecommendations
	}
	if !s.Fitted() {
		return nil
	}

	userIdx, known := s.matrix.CustomerIndex(customerID)
	if !known {
		return s.popularityRecommendations(n)
	}

	userRow := s.matrix.Row(userIdx)
	scores := s.collaborativeScores(userIdx, userRow)

	// Never recommend a repurchase.
	for j, qty := range userRow {
		if qty > 0 {
			scores[j] = math.Inf(-1)
		}
	}

	out := make([]recommend.Recommendation, 0, n)
	seen := make(map[int]bool)
	for _, j := range rankDescending(scores) {
		if len(out) >= n {
			break
		}
		if scores[j] <= 0 {
			break
		}
		seen[j] = true
		out = append(out, recommend.Recommendation{
			Product:   s.matrix.Products[j],
			Score:     scores[j],
			Reasoning: recommend.ReasoningCollaborative,
		})
	}

	if len(out) < n {
		out = append(out, s.contentBasedFill(userIdx, userRow, n-len(out), seen)...)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// collaborativeScores computes the similarity-weighted score per product and
// blends in the factor reconstruction when the model is present. A failed
// factor projection silently leaves the similarity score alone.
func (s *RecommenderService) collaborativeScores(userIdx int, userRow []float64) []float64 {
	simRow := s.sim.UserSim[userIdx]
	scores := make([]float64, s.matrix.ProductCount())
	for i, other := range s.matrix.Data {
		w := simRow[i]
		if w == 0 {
			continue
		}
		for j, qty := range other {
			scores[j] += w * qty
		}
	}

	if s.factors.Present() {
		if factorScores, err := s.factors.ScoreVector(userRow); err == nil {
			for j := range scores {
				scores[j] = s.cfg.SimilarityWeight*scores[j] + s.cfg.FactorWeight*factorScores[j]
			}
		}
	}
	return scores
}

// contentBasedFill accumulates item similarity weighted by purchase quantity
// over the customer's purchased products and returns the best still-unseen
// products with strictly positive scores.
func (s *RecommenderService) contentBasedFill(userIdx int, userRow []float64, n int, seen map[int]bool) []recommend.Recommendation {
	purchased := make([]int, 0)
	for j, qty := range userRow {
		if qty > 0 {
			purchased = append(purchased, j)
		}
	}
	if len(purchased) == 0 || n <= 0 {
		return nil
	}

	scores := make([]float64, s.matrix.ProductCount())
	for _, p := range purchased {
		simRow := s.sim.ItemSim[p]
		qty := userRow[p]
		for j := range scores {
			scores[j] += simRow[j] * qty
		}
	}
	for _, p := range purchased {
		scores[p] = math.Inf(-1)
	}

	out := make([]recommend.Recommendation, 0, n)
	for _, j := range rankDescending(scores) {
		if len(out) >= n {
			break
		}
		if scores[j] <= 0 {
			break
		}
		if seen[j] {
			continue
		}
		out = append(out, recommend.Recommendation{
			Product:   s.matrix.Products[j],
			Score:     scores[j],
			Reasoning: recommend.ReasoningContentBased,
		})
	}
	return out
}

// popularityRecommendations is the cold-start path: products ranked by total
// quantity across all customers.
func (s *RecommenderService) popularityRecommendations(n int) []recommend.Recommendation {
	totals := s.matrix.ProductTotals()
	out := make([]recommend.Recommendation, 0, n)
	for _, j := range rankDescending(totals) {
		if len(out) >= n {
			break
		}
		out = append(out, recommend.Recommendation{
			Product:   s.matrix.Products[j],
			Score:     totals[j],
			Reasoning: recommend.ReasoningPopularity,
		})
	}
	return out
}

// SimilarCustomers returns the n nearest customers by similarity, excluding
// the customer itself; empty if the id is unknown.
func (s *RecommenderService) SimilarCustomers(customerID transaction.CustomerID, n int) []recommend.SimilarCustomer {
	if n <= 0 || !s.Fitted() {
		return nil
	}
	userIdx, ok := s.sim.CustomerIndex(customerID)
	if !ok {
		return nil
	}

	simRow := s.sim.UserSim[userIdx]
	order := rankDescending(simRow)
	out := make([]recommend.SimilarCustomer, 0, n)
	for _, i := range order {
		if i == userIdx {
			continue
		}
		if len(out) >= n {
			break
		}
		out = append(out, recommend.SimilarCustomer{
			CustomerID: s.matrix.Customers[i],
			Similarity: simRow[i],
		})
	}
	return out
}

// SimilarProducts returns the n nearest products by similarity, excluding
// the product itself; empty if the product is unknown.
func (s *RecommenderService) SimilarProducts(product string, n int) []recommend.SimilarProduct {
	if n <= 0 || !s.Fitted() {
		return nil
	}
	prodIdx, ok := s.sim.ProductIndex(product)
	if !ok {
		return nil
	}

	simRow := s.sim.ItemSim[prodIdx]
	order := rankDescending(simRow)
	out := make([]recommend.SimilarProduct, 0, n)
	for _, j := range order {
		if j == prodIdx {
			continue
		}
		if len(out) >= n {
			break
		}
		out = append(out, recommend.SimilarProduct{
			Product:    s.matrix.Products[j],
			Similarity: simRow[j],
		})
	}
	return out
}

// rankDescending returns column indices ordered by descending score; ties
// keep ascending column order so ranking is deterministic.
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	return order
}
