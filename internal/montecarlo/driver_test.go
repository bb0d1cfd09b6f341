package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := NewDriver(domain.DefaultParams(), solver.Options{})
	require.NoError(t, err)
	return d
}

func TestNewDriver_InvalidParams(t *testing.T) {
	p := domain.DefaultParams()
	p.Alpha = 0
	_, err := NewDriver(p, solver.Options{})
	assert.Error(t, err)
}

func TestSimulateMarket_Deterministic(t *testing.T) {
	d := newTestDriver(t)

	d1, r1 := d.SimulateMarket(3, 42)
	d2, r2 := d.SimulateMarket(3, 42)

	assert.Equal(t, d1, d2)
	assert.Equal(t, r1, r2)

	// Otra repetición produce otro mercado
	d3, _ := d.SimulateMarket(4, 42)
	assert.NotEqual(t, d1, d3)
}

func TestSimulatePanel_Idempotent(t *testing.T) {
	d := newTestDriver(t)

	a := d.SimulatePanel(20, 7)
	b := d.SimulatePanel(20, 7)
	require.Equal(t, len(a.Rows), len(b.Rows))
	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, uint64(7), a.Seed)
	assert.Equal(t, 20, a.Markets())

	// Otra semilla, otro panel
	c := d.SimulatePanel(20, 8)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestSimulatePanel_MostMarketsConverge(t *testing.T) {
	d := newTestDriver(t)
	panel := d.SimulatePanel(100, 1)

	usable := len(panel.UsableRows())
	assert.GreaterOrEqual(t, usable, 180) // 200 filas, tolera algunos NaN

	for _, row := range panel.UsableRows() {
		assert.Greater(t, row.Price, row.Cost)
		assert.Greater(t, row.Share, 0.0)
		assert.Greater(t, row.Outside, 0.0)
	}
}

func TestSimulateMonteCarlo_BiasPattern(t *testing.T) {
	if testing.Short() {
		t.Skip("full monte carlo run")
	}
	d := newTestDriver(t)

	summary, err := d.SimulateMonteCarlo(100, 60, 42)
	require.NoError(t, err)
	require.Len(t, summary.Stats, 6)

	olsAlpha, ok := summary.Get(domain.EstimatorOLS, "alpha_p")
	require.True(t, ok)
	ivAlpha, ok := summary.Get(domain.EstimatorIV, "alpha_p")
	require.True(t, ok)

	// Verdadero: coeficiente del precio = -α = -1
	assert.Equal(t, -1.0, ivAlpha.True)

	// El IV es (aprox.) insesgado; el OLS queda sesgado hacia cero porque
	// el precio sube con ξ vía el markup de equilibrio
	assert.InDelta(t, -1.0, ivAlpha.Mean, 0.15)
	assert.Greater(t, olsAlpha.Mean, ivAlpha.Mean)
	assert.Greater(t, olsAlpha.Bias(), 0.0)

	assert.Greater(t, ivAlpha.StdDev, 0.0)
	assert.Equal(t, 100, summary.Markets)
	assert.Equal(t, 60, summary.Samples)
}

func TestSimulateMonteCarlo_Validation(t *testing.T) {
	d := newTestDriver(t)

	_, err := d.SimulateMonteCarlo(1, 10, 1)
	assert.Error(t, err)

	_, err = d.SimulateMonteCarlo(10, 0, 1)
	assert.Error(t, err)
}

func TestSimulateMonteCarlo_SmallRun(t *testing.T) {
	d := newTestDriver(t)

	summary, err := d.SimulateMonteCarlo(30, 3, 9)
	require.NoError(t, err)

	// Seis estadísticos: {OLS, IV} × {beta0, beta_x, alpha_p}
	require.Len(t, summary.Stats, 6)
	for _, st := range summary.Stats {
		assert.False(t, st.Mean != st.Mean, "mean is NaN for %s/%s", st.Estimator, st.Param)
	}
}
