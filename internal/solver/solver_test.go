package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_LinearSystem(t *testing.T) {
	// 2x + y = 5 ; x - y = 1 → (2, 1)
	f := func(v []float64) []float64 {
		return []float64{2*v[0] + v[1] - 5, v[0] - v[1] - 1}
	}

	res, err := Solve(f, []float64{0, 0}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Root[0], 1e-8)
	assert.InDelta(t, 1, res.Root[1], 1e-8)
	assert.Less(t, res.Norm, 1e-8)
}

func TestSolve_NonlinearSystem(t *testing.T) {
	// Círculo x²+y²=4 con recta y=x → (√2, √2) desde un guess positivo
	f := func(v []float64) []float64 {
		return []float64{v[0]*v[0] + v[1]*v[1] - 4, v[1] - v[0]}
	}

	res, err := Solve(f, []float64{1, 1.5}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.Root[0], 1e-6)
	assert.InDelta(t, math.Sqrt2, res.Root[1], 1e-6)
}

func TestSolve_OneDimensional(t *testing.T) {
	// x² = 4
	f := func(v []float64) []float64 {
		return []float64{v[0]*v[0] - 4}
	}

	res, err := Solve(f, []float64{3}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Root[0], 1e-8)
}

func TestSolve_ResidualReported(t *testing.T) {
	f := func(v []float64) []float64 {
		return []float64{v[0] - 1, v[1] + 2}
	}

	res, err := Solve(f, []float64{5, 5}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Residual, 2)
	assert.Less(t, math.Abs(res.Residual[0]), 1e-8)
	assert.Less(t, math.Abs(res.Residual[1]), 1e-8)
}

func TestSolve_NoConvergence(t *testing.T) {
	// Sin raíz: F ≡ 1. El jacobiano es singular y el fallback tampoco
	// puede bajar el residuo → ErrNoConverge
	f := func(v []float64) []float64 {
		return []float64{1, 1}
	}

	_, err := Solve(f, []float64{0, 0}, Options{MaxIter: 20})
	assert.ErrorIs(t, err, ErrNoConverge)
}

func TestSolve_NonFiniteResidual(t *testing.T) {
	f := func(v []float64) []float64 {
		return []float64{math.NaN(), math.NaN()}
	}

	_, err := Solve(f, []float64{0, 0}, Options{MaxIter: 10})
	assert.ErrorIs(t, err, ErrNoConverge)
}

func TestSolve_EmptyGuess(t *testing.T) {
	f := func(v []float64) []float64 { return nil }
	_, err := Solve(f, nil, Options{})
	assert.Error(t, err)
}

func TestSolve_DefaultsApplied(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 1e-10, opts.Tol)
	assert.Equal(t, 200, opts.MaxIter)
	assert.Equal(t, 1e-6, opts.FallbackTol)
}
