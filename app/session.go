package app

import (
	"context"
	"fmt"

	"smartcart/domain/basket"
	"smartcart/domain/transaction"
	"smartcart/internal"
	"smartcart/internal/config"
	"smartcart/ports"
)

// AnalysisSession wires a transaction source to both engines for one
// in-memory analysis session. Refresh pulls the source, rebuilds both
// matrices and refits both engines synchronously; derived state is only
// replaced, never patched. The session itself does no locking either.
type AnalysisSession struct {
	source   ports.TransactionSource
	exporter ports.RuleExporter
	baskets  *BasketAnalysisService
	rec      *RecommenderService
	logger   *internal.Logger

	exportCfg config.ExportConfig
}

// NewAnalysisSession builds a session from validated configuration.
func NewAnalysisSession(cfg *config.Config, source ports.TransactionSource, exporter ports.RuleExporter) (*AnalysisSession, error) {
	baskets, err := NewBasketAnalysisService(BasketAnalysisConfig{
		MinSupport:    cfg.Analysis.MinSupport,
		MinConfidence: cfg.Analysis.MinConfidence,
	})
	if err != nil {
		return nil, err
	}
	rec, err := NewRecommenderService(RecommenderConfig{
		NComponents:      cfg.Recommender.NComponents,
		NRecommendations: cfg.Recommender.NRecommendations,
		SimilarityWeight: cfg.Recommender.SimilarityWeight,
		FactorWeight:     cfg.Recommender.FactorWeight,
		MaxIterations:    cfg.Recommender.MaxIterations,
		Seed:             cfg.Recommender.Seed,
	})
	if err != nil {
		return nil, err
	}

	return &AnalysisSession{
		source:    source,
		exporter:  exporter,
		baskets:   baskets,
		rec:       rec,
		logger:    internal.DefaultLogger,
		exportCfg: cfg.Export,
	}, nil
}

// Baskets returns the market basket analysis service.
func (s *AnalysisSession) Baskets() *BasketAnalysisService {
	return s.baskets
}

// Recommender returns the hybrid recommender service.
func (s *AnalysisSession) Recommender() *RecommenderService {
	return s.rec
}

// Refresh reads the transaction source and refits both engines.
func (s *AnalysisSession) Refresh(ctx context.Context) error {
	rows, err := s.source.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read transactions: %w", err)
	}
	rows = transaction.Sanitize(rows)
	s.logger.Info("session refresh: %d transaction rows", len(rows))

	if err := s.baskets.Fit(ctx, basket.BuildMatrix(rows)); err != nil {
		return fmt.Errorf("basket analysis fit failed: %w", err)
	}
	if err := s.rec.Fit(ctx, basket.BuildQuantityMatrix(rows)); err != nil {
		return fmt.Errorf("recommender fit failed: %w", err)
	}
	return nil
}

// ExportRules writes the current rule set through the configured exporter.
func (s *AnalysisSession) ExportRules(ctx context.Context) error {
	if s.exporter == nil {
		return nil
	}
	return s.exporter.ExportRules(ctx, s.baskets.ExportRows(), s.exportCfg.Path)
}
