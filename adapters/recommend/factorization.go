package recommend

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"smartcart/domain/core"
)

// FactorState is the tri-state presence flag of the latent factor model.
// The recommendation policy checks it instead of relying on suppressed
// errors: a degraded model simply contributes no factor signal.
type FactorState int

const (
	// StateUnfit means Fit has not run.
	StateUnfit FactorState = iota
	// StateFit means factor matrices are available.
	StateFit
	// StateDegraded means the fit failed numerically; the model is absent.
	StateDegraded
)

// String returns the state name.
func (s FactorState) String() string {
	switch s {
	case StateFit:
		return "fit"
	case StateDegraded:
		return "degraded"
	default:
		return "unfit"
	}
}

// FactorConfig configures the non-negative factorization.
type FactorConfig struct {
	// Components is the requested rank k; clamped internally to
	// min(k, min(matrix dimensions)−1) to keep the factorization well-posed.
	Components int
	// MaxIterations bounds the multiplicative update loop.
	MaxIterations int
	// Seed fixes the factor initialization for reproducible fits.
	Seed int64
	// Tolerance stops iteration once the relative reconstruction error
	// improvement falls below it.
	Tolerance float64
}

// DefaultFactorConfig returns the defaults used by the recommender.
func DefaultFactorConfig() FactorConfig {
	return FactorConfig{
		Components:    10,
		MaxIterations: 500,
		Seed:          42,
		Tolerance:     1e-6,
	}
}

// updateEpsilon keeps multiplicative-update denominators away from zero.
const updateEpsilon = 1e-9

// projectIterations bounds the fixed-basis projection loop.
const projectIterations = 100

// FactorModel is a non-negative low-rank factorization of the normalized
// quantity matrix: userFeatures (customers×k) times itemFeatures (k×products)
// approximates the matrix. Fit is best-effort; any numerical failure marks
// the model degraded rather than raising.
type FactorModel struct {
	state        FactorState
	components   int
	userFeatures *mat.Dense
	itemFeatures *mat.Dense
}

// FitFactors factorizes the normalized matrix with seeded multiplicative
// updates. It always returns a model; check State (or Present) before use.
func FitFactors(normalized [][]float64, cfg FactorConfig) *FactorModel {
	m := len(normalized)
	if m == 0 {
		return &FactorModel{state: StateDegraded}
	}
	n := len(normalized[0])
	if n == 0 {
		return &FactorModel{state: StateDegraded}
	}

	k := cfg.Components
	if limit := min(m, n) - 1; k > limit {
		k = limit
	}
	if k <= 0 {
		return &FactorModel{state: StateDegraded}
	}

	flat := make([]float64, 0, m*n)
	for _, row := range normalized {
		flat = append(flat, row...)
	}
	v := mat.NewDense(m, n, flat)

	rng := rand.New(rand.NewSource(cfg.Seed))
	w := randomDense(m, k, rng)
	h := randomDense(k, n, rng)

	prevErr := math.Inf(1)
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		// H ← H ∘ (WᵀV) ⊘ (WᵀWH + ε)
		var wtv, wtw, wtwh mat.Dense
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		scaleElem(h, &wtv, &wtwh)

		// W ← W ∘ (VHᵀ) ⊘ (WHHᵀ + ε)
		var vht, hht, whht mat.Dense
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		scaleElem(w, &vht, &whht)

		if iter%10 != 9 {
			continue
		}
		var approx, diff mat.Dense
		approx.Mul(w, h)
		diff.Sub(v, &approx)
		err := mat.Norm(&diff, 2)
		if math.IsNaN(err) || math.IsInf(err, 0) {
			return &FactorModel{state: StateDegraded}
		}
		if prevErr-err < cfg.Tolerance*prevErr {
			break
		}
		prevErr = err
	}

	if hasNonFinite(w) || hasNonFinite(h) {
		return &FactorModel{state: StateDegraded}
	}

	return &FactorModel{
		state:        StateFit,
		components:   k,
		userFeatures: w,
		itemFeatures: h,
	}
}

// State returns the model's presence state.
func (f *FactorModel) State() FactorState {
	if f == nil {
		return StateUnfit
	}
	return f.state
}

// Present reports whether factor matrices are available.
func (f *FactorModel) Present() bool {
	return f.State() == StateFit
}

// Components returns the effective rank after clamping.
func (f *FactorModel) Components() int {
	if f == nil {
		return 0
	}
	return f.components
}

// ScoreVector projects a customer quantity vector into factor space and
// reconstructs a per-product score vector from it. The projection solves a
// small non-negative least squares against the fixed item basis with
// multiplicative updates, so it is deterministic.
func (f *FactorModel) ScoreVector(vector []float64) ([]float64, error) {
	if !f.Present() {
		return nil, core.ErrModelAbsent
	}
	_, n := f.itemFeatures.Dims()
	if len(vector) != n {
		return nil, core.ErrColumnMismatch
	}

	u := mat.NewDense(1, n, append([]float64(nil), vector...))
	w := mat.NewDense(1, f.components, nil)
	for j := 0; j < f.components; j++ {
		w.Set(0, j, 1)
	}

	var hht mat.Dense
	hht.Mul(f.itemFeatures, f.itemFeatures.T())
	for iter := 0; iter < projectIterations; iter++ {
		// w ← w ∘ (uHᵀ) ⊘ (wHHᵀ + ε)
		var uht, whht mat.Dense
		uht.Mul(u, f.itemFeatures.T())
		whht.Mul(w, &hht)
		scaleElem(w, &uht, &whht)
	}
	if hasNonFinite(w) {
		return nil, core.ErrModelAbsent
	}

	var scores mat.Dense
	scores.Mul(w, f.itemFeatures)
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = scores.At(0, j)
	}
	return out, nil
}

// scaleElem applies dst ← dst ∘ num ⊘ (den + ε) elementwise.
func scaleElem(dst, num, den *mat.Dense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)*num.At(i, j)/(den.At(i, j)+updateEpsilon))
		}
	}
}

// randomDense fills an r×c matrix with uniform [0, 1) values from rng.
func randomDense(r, c int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(r, c, data)
}

// hasNonFinite reports whether any cell is NaN or infinite.
func hasNonFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
