package recommend

import (
	"errors"
	"math"
	"testing"

	"smartcart/domain/core"
)

func TestFitFactors_FitAndClamp(t *testing.T) {
	cfg := DefaultFactorConfig()
	model := FitFactors(blockMatrix(), cfg)

	if model.State() != StateFit {
		t.Fatalf("expected fit state, got %s", model.State())
	}
	// Requested rank 10 is clamped to min(4,4)−1 = 3.
	if model.Components() != 3 {
		t.Errorf("expected effective rank 3, got %d", model.Components())
	}
}

func TestFitFactors_DegradedStates(t *testing.T) {
	cfg := DefaultFactorConfig()

	t.Run("empty matrix", func(t *testing.T) {
		model := FitFactors(nil, cfg)
		if model.State() != StateDegraded {
			t.Errorf("expected degraded, got %s", model.State())
		}
	})

	t.Run("rank clamps to zero", func(t *testing.T) {
		model := FitFactors([][]float64{{1.0}}, cfg)
		if model.State() != StateDegraded {
			t.Errorf("expected degraded for 1x1 matrix, got %s", model.State())
		}
		if model.Present() {
			t.Error("degraded model must not report present")
		}
	})

	t.Run("nil model is unfit", func(t *testing.T) {
		var model *FactorModel
		if model.State() != StateUnfit {
			t.Errorf("expected unfit, got %s", model.State())
		}
	})
}

func TestFitFactors_Deterministic(t *testing.T) {
	cfg := DefaultFactorConfig()
	a := FitFactors(blockMatrix(), cfg)
	b := FitFactors(blockMatrix(), cfg)

	row := []float64{1, 1, 0, 0}
	sa, err := a.ScoreVector(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sb, err := b.ScoreVector(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := range sa {
		if sa[j] != sb[j] {
			t.Fatalf("score %d differs across seeded fits: %g vs %g", j, sa[j], sb[j])
		}
	}
}

func TestFactorModel_ScoreVector(t *testing.T) {
	model := FitFactors(blockMatrix(), DefaultFactorConfig())

	scores, err := model.ScoreVector([]float64{1, 1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 4 {
		t.Fatalf("expected 4 scores, got %d", len(scores))
	}
	for j, s := range scores {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			t.Errorf("score %d not a finite non-negative value: %g", j, s)
		}
	}

	// The block structure should score in-block products above out-of-block.
	if scores[0] <= scores[2] || scores[1] <= scores[3] {
		t.Errorf("expected in-block products to dominate, got %v", scores)
	}

	t.Run("column mismatch", func(t *testing.T) {
		if _, err := model.ScoreVector([]float64{1, 1}); !errors.Is(err, core.ErrColumnMismatch) {
			t.Errorf("expected column mismatch error, got %v", err)
		}
	})

	t.Run("absent model", func(t *testing.T) {
		degraded := FitFactors(nil, DefaultFactorConfig())
		if _, err := degraded.ScoreVector([]float64{1}); !errors.Is(err, core.ErrModelAbsent) {
			t.Errorf("expected model absent error, got %v", err)
		}
	})
}

// blockMatrix is a 4x4 matrix with two clean user/product blocks, which a
// rank-2+ factorization reconstructs almost exactly.
func blockMatrix() [][]float64 {
	return [][]float64{
		{1.0, 0.8, 0.0, 0.0},
		{0.9, 1.0, 0.0, 0.0},
		{0.0, 0.0, 1.0, 0.7},
		{0.0, 0.0, 0.8, 1.0},
	}
}
