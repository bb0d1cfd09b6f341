package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

func TestQualityModel_CostAndMarginalCost(t *testing.T) {
	m := DefaultQualityModel()

	// C(x) = (μ/γ)·x², MC = 2μx/γ
	c1, err := m.Cost(domain.Firm1, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 10.0/1.5*0.81, c1, 1e-12)

	mc2, err := m.MarginalCost(domain.Firm2, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 2*10*0.9/1.0, mc2, 1e-12)
	assert.Greater(t, mc2, 0.0)

	_, err = m.Cost(domain.Firm(7), 0.9)
	assert.ErrorIs(t, err, domain.ErrUnknownFirm)
}

func TestQualityModel_MarginalBClipped(t *testing.T) {
	m := DefaultQualityModel()

	// Calidades iguales → consumidor indiferente en el centro
	assert.InDelta(t, 0.5, m.MarginalB(0.9, 0.9), 1e-12)

	// Diferencias grandes saturan en [0,1]
	assert.Equal(t, 1.0, m.MarginalB(2, 0.5))
	assert.Equal(t, 0.0, m.MarginalB(0.5, 2))
}

func TestQualityModel_QuantitiesSumToOne(t *testing.T) {
	m := DefaultQualityModel()
	pairs := [][2]float64{{0.9, 0.9}, {1.05, 0.98}, {1.2, 0.7}, {0.3, 1.1}}

	for _, xs := range pairs {
		q1, err := m.Quantity(domain.Firm1, xs[0], xs[1])
		require.NoError(t, err)
		q2, err := m.Quantity(domain.Firm2, xs[0], xs[1])
		require.NoError(t, err)
		assert.InDelta(t, 1.0, q1+q2, 1e-12)
	}
}

func TestQualityModel_Profit(t *testing.T) {
	m := DefaultQualityModel()

	pi, err := m.Profit(domain.Firm1, 0.9, 0.9)
	require.NoError(t, err)

	// q=0.5, C(0.9)=5.4 → π = 0.5·(10-5.4)
	assert.InDelta(t, 0.5*(10-10.0/1.5*0.81), pi, 1e-12)
}

func TestQualityModel_QualityCap(t *testing.T) {
	m := DefaultQualityModel()

	cap1, err := m.QualityCap(domain.Firm1)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1.5), cap1, 1e-12)

	// En el tope el coste iguala al precio: beneficio cero aunque venda todo
	c, _ := m.Cost(domain.Firm1, cap1)
	assert.InDelta(t, m.P, c, 1e-12)
}

func TestQualityModel_FOCSignChange(t *testing.T) {
	m := DefaultQualityModel()

	// La CPO de la empresa 2 pasa de positiva a negativa al subir x2:
	// existe un interior donde se anula
	low, err := m.FOC(domain.Firm2, 1.0, 0.5)
	require.NoError(t, err)
	high, err := m.FOC(domain.Firm2, 1.0, 0.99)
	require.NoError(t, err)
	assert.Greater(t, low, 0.0)
	assert.Less(t, high, 0.0)
}

func TestQualityModel_MaxWelfare(t *testing.T) {
	m := DefaultQualityModel()

	x, w := m.MaxWelfare()
	// Con utilidad lineal el óptimo es x = γ/2 de la empresa más productiva
	assert.InDelta(t, 0.75, x, 1e-12)
	assert.Greater(t, w, 0.0)

	// El bienestar en el óptimo domina a puntos cercanos
	u := m.Utility(x + 0.05)
	c, _ := m.Cost(domain.Firm1, x+0.05)
	assert.GreaterOrEqual(t, w, u-c)
}

func TestQualityModel_ResidualPenalty(t *testing.T) {
	m := DefaultQualityModel()

	// Calidad negativa → residuo de penalización enorme
	r := m.Residual([]float64{-0.1, 0.9})
	assert.Equal(t, 10e9, r[0])

	// Punto factible → residuos finitos "normales"
	r = m.Residual([]float64{0.9, 0.7})
	assert.Less(t, math.Abs(r[0]), 1e6)
	assert.Less(t, math.Abs(r[1]), 1e6)
}

func TestQualityModel_ConsumerSurplusAndWelfare(t *testing.T) {
	m := DefaultQualityModel()
	x1, x2 := 1.05, 0.98

	cs1 := m.ConsumerSurplus(domain.Firm1, x1, x2)
	cs2 := m.ConsumerSurplus(domain.Firm2, x1, x2)
	total := m.ConsumerSurplus(0, x1, x2)

	// El CS total usa el precio una sola vez (los q suman 1)
	assert.InDelta(t, cs1+cs2, total, 1e-12)

	pi1, _ := m.Profit(domain.Firm1, x1, x2)
	pi2, _ := m.Profit(domain.Firm2, x1, x2)
	assert.InDelta(t, total+pi1+pi2, m.Welfare(x1, x2), 1e-12)
}
