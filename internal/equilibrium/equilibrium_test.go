package equilibrium

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/model"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

// TestSolvePrice_DocumentedFixedPoint reproduce el punto fijo del
// experimento publicado: parámetros por defecto y todos los shocks a
// cero. Equilibrio simétrico con precio por encima del coste marginal.
func TestSolvePrice_DocumentedFixedPoint(t *testing.T) {
	m := model.NewPriceModel(domain.DefaultParams(), domain.ZeroDraw())

	rec := SolvePrice(m, nil, solver.Options{})
	require.True(t, rec.IsValid())

	// c = e; p* ≈ 4.3706, s* ≈ 0.3948, π* ≈ 0.652
	assert.InDelta(t, math.E, rec.Costs[0], 1e-9)
	assert.InDelta(t, 4.3706, rec.Prices[0], 1e-2)
	assert.InDelta(t, rec.Prices[0], rec.Prices[1], 1e-6)
	assert.InDelta(t, 0.3948, rec.Shares[0], 1e-2)
	assert.InDelta(t, 0.652, rec.Profits[0], 1e-2)

	// Precio sobre coste marginal y cuotas que suman menos de 1
	assert.Greater(t, rec.Prices[0], rec.Costs[0])
	assert.Less(t, rec.Shares[0]+rec.Shares[1], 1.0)
	assert.Greater(t, rec.OutsideShare(), 0.0)
}

func TestSolvePrice_FOCsHoldAtSolution(t *testing.T) {
	p := domain.DefaultParams()
	for rep := uint64(0); rep < 25; rep++ {
		m := model.NewPriceModel(p, domain.NewExogenousDraw(p, 11, rep))
		rec := SolvePrice(m, nil, solver.Options{})
		if !rec.IsValid() {
			continue // draw sin convergencia: centinela, no fallo del test
		}

		f1, err := m.FOC(rec.Prices[0], rec.Prices[1], domain.Firm1)
		require.NoError(t, err)
		f2, err := m.FOC(rec.Prices[0], rec.Prices[1], domain.Firm2)
		require.NoError(t, err)
		assert.InDelta(t, 0, f1, 1e-6)
		assert.InDelta(t, 0, f2, 1e-6)

		// Markup positivo en ambos lados
		assert.Greater(t, rec.Prices[0], rec.Costs[0])
		assert.Greater(t, rec.Prices[1], rec.Costs[1])
	}
}

func TestSolvePrice_SharesPlusOutsideSumToOne(t *testing.T) {
	p := domain.DefaultParams()
	m := model.NewPriceModel(p, domain.NewExogenousDraw(p, 5, 3))

	rec := SolvePrice(m, nil, solver.Options{})
	require.True(t, rec.IsValid())
	assert.InDelta(t, 1.0, rec.Shares[0]+rec.Shares[1]+rec.OutsideShare(), 1e-12)
}

func TestSolvePrice_NaNSentinelOnFailure(t *testing.T) {
	// β0 absurdo → exp desborda → el solver no puede evaluar F y el
	// record degrada a centinela NaN en vez de propagar el error
	p := domain.DefaultParams()
	p.Beta0 = 1e6
	m := model.NewPriceModel(p, domain.ZeroDraw())

	rec := SolvePrice(m, nil, solver.Options{MaxIter: 30})
	assert.False(t, rec.Converged)
	assert.False(t, rec.IsValid())
	assert.True(t, math.IsNaN(rec.Prices[0]))
	assert.True(t, math.IsNaN(rec.Profits[1]))
}

func TestSolveQuality_Equilibrium(t *testing.T) {
	m := model.DefaultQualityModel()

	rec := SolveQuality(m, nil, solver.Options{})
	require.True(t, rec.IsValid())

	// Las CPO se anulan en la solución
	assert.InDelta(t, 0, rec.FOCs[0], 1e-6)
	assert.InDelta(t, 0, rec.FOCs[1], 1e-6)

	// Mercado cubierto: las cantidades suman 1
	assert.InDelta(t, 1.0, rec.Quantities[0]+rec.Quantities[1], 1e-9)

	// La empresa más productiva elige más calidad y gana más
	assert.Greater(t, rec.Qualities[0], rec.Qualities[1])
	assert.Greater(t, rec.Profits[0], rec.Profits[1])
	assert.GreaterOrEqual(t, rec.Profits[1], 0.0)

	// Calidades dentro de los topes rentables
	cap1, _ := m.QualityCap(domain.Firm1)
	cap2, _ := m.QualityCap(domain.Firm2)
	assert.Less(t, rec.Qualities[0], cap1)
	assert.Less(t, rec.Qualities[1], cap2)
}

func TestSolveQuality_WelfareDecomposition(t *testing.T) {
	m := model.DefaultQualityModel()
	rec := SolveQuality(m, nil, solver.Options{})
	require.True(t, rec.IsValid())

	want := m.ConsumerSurplus(0, rec.Qualities[0], rec.Qualities[1]) +
		rec.Profits[0] + rec.Profits[1]
	assert.InDelta(t, want, rec.Welfare, 1e-9)

	// El equilibrio no alcanza el first-best
	_, wMax := m.MaxWelfare()
	assert.LessOrEqual(t, rec.Welfare, wMax+1e-9)
}

func TestSolveQuality_CustomGuessSameRoot(t *testing.T) {
	m := model.DefaultQualityModel()

	a := SolveQuality(m, []float64{0.9, 0.7}, solver.Options{})
	b := SolveQuality(m, []float64{1.0, 0.9}, solver.Options{})
	require.True(t, a.IsValid())
	require.True(t, b.IsValid())
	assert.InDelta(t, a.Qualities[0], b.Qualities[0], 1e-5)
	assert.InDelta(t, a.Qualities[1], b.Qualities[1], 1e-5)
}
