package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcart/domain/rules"
	"smartcart/domain/transaction"
	"smartcart/internal/config"
)

// stubSource serves a fixed transaction slice, or a fixed error.
type stubSource struct {
	rows []transaction.Transaction
	err  error
}

func (s *stubSource) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	return s.rows, s.err
}

// stubExporter records what was exported.
type stubExporter struct {
	rows []rules.ExportRow
	path string
}

func (e *stubExporter) ExportRules(ctx context.Context, rows []rules.ExportRow, path string) error {
	e.rows = rows
	e.path = path
	return nil
}

func TestAnalysisSession_Refresh(t *testing.T) {
	cfg := sessionConfig()
	source := &stubSource{rows: scenarioRows()}
	session, err := NewAnalysisSession(cfg, source, nil)
	require.NoError(t, err)

	require.NoError(t, session.Refresh(context.Background()))

	assert.True(t, session.Baskets().Fitted())
	assert.True(t, session.Recommender().Fitted())
	assert.NotEmpty(t, session.Baskets().Rules())

	t.Run("source error propagates", func(t *testing.T) {
		failing := &stubSource{err: errors.New("connection reset")}
		broken, err := NewAnalysisSession(cfg, failing, nil)
		require.NoError(t, err)
		assert.Error(t, broken.Refresh(context.Background()))
	})
}

func TestAnalysisSession_ExportRules(t *testing.T) {
	cfg := sessionConfig()
	exporter := &stubExporter{}
	session, err := NewAnalysisSession(cfg, &stubSource{rows: scenarioRows()}, exporter)
	require.NoError(t, err)
	require.NoError(t, session.Refresh(context.Background()))

	require.NoError(t, session.ExportRules(context.Background()))
	assert.Equal(t, cfg.Export.Path, exporter.path)
	assert.Len(t, exporter.rows, 2)

	t.Run("nil exporter is a no-op", func(t *testing.T) {
		bare, err := NewAnalysisSession(cfg, &stubSource{}, nil)
		require.NoError(t, err)
		assert.NoError(t, bare.ExportRules(context.Background()))
	})
}

func TestNewAnalysisSession_InvalidConfig(t *testing.T) {
	cfg := sessionConfig()
	cfg.Analysis.MinSupport = 0

	_, err := NewAnalysisSession(cfg, &stubSource{}, nil)
	assert.Error(t, err)
}

func sessionConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{MinSupport: 0.5, MinConfidence: 0.5},
		Recommender: config.RecommenderConfig{
			NComponents:      10,
			NRecommendations: 10,
			SimilarityWeight: 0.6,
			FactorWeight:     0.4,
			MaxIterations:    500,
			Seed:             42,
		},
		Export: config.ExportConfig{Path: "rules.xlsx", Sheet: "Association Rules"},
	}
}
