package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule_WeightsSumToSqrtPi(t *testing.T) {
	for _, n := range []int{1, 5, 16, 64} {
		r, err := NewRule(n)
		require.NoError(t, err)
		require.Len(t, r.Nodes, n)
		require.Len(t, r.Weights, n)

		sum := 0.0
		for _, w := range r.Weights {
			sum += w
		}
		assert.InDelta(t, math.Sqrt(math.Pi), sum, 1e-10)
	}
}

func TestNewRule_InvalidN(t *testing.T) {
	_, err := NewRule(0)
	assert.Error(t, err)
	_, err = NewRule(-3)
	assert.Error(t, err)
}

func TestExpectNormal_Moments(t *testing.T) {
	r, err := NewRule(32)
	require.NoError(t, err)

	mu, sigma := 1.5, 0.7

	// E[X] = μ, E[X²] = μ² + σ²
	assert.InDelta(t, mu, r.ExpectNormal(func(x float64) float64 { return x }, mu, sigma), 1e-10)
	assert.InDelta(t, mu*mu+sigma*sigma,
		r.ExpectNormal(func(x float64) float64 { return x * x }, mu, sigma), 1e-10)

	// E[e^X] = e^{μ+σ²/2}
	want := math.Exp(mu + sigma*sigma/2)
	assert.InDelta(t, want, r.ExpectNormal(math.Exp, mu, sigma), 1e-8)
}

func TestExpectLogNormal_Mean(t *testing.T) {
	r, err := NewRule(32)
	require.NoError(t, err)

	mu, sigma := 0.0, 0.5

	// E[L] = e^{μ+σ²/2} para L lognormal
	want := math.Exp(mu + sigma*sigma/2)
	got := r.ExpectLogNormal(func(l float64) float64 { return l }, mu, sigma)
	assert.InDelta(t, want, got, 1e-10)
}

func TestExpectNormal_ZeroSigmaDegenerate(t *testing.T) {
	r, err := NewRule(16)
	require.NoError(t, err)

	// σ = 0 degenera en evaluar g en μ
	got := r.ExpectNormal(func(x float64) float64 { return 3*x + 1 }, 2, 0)
	assert.InDelta(t, 7, got, 1e-12)
}
