// Package model implementa los modelos de mercado como funciones puras
// sobre un set de parámetros inmutable y un draw exógeno. Sin efectos
// secundarios: todo es determinista dado (params, draw, acciones).
package model

import (
	"math"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

// PriceModel es el duopolio de competencia en precios con demanda logit.
// Utilidad media lineal en (x, p, ξ) y coste marginal exponencial de un
// índice lineal, que garantiza positividad.
type PriceModel struct {
	Params domain.Params
	Draw   domain.ExogenousDraw
}

// NewPriceModel construye el modelo para un mercado concreto. El draw se
// fija en la construcción; para otro mercado se construye un modelo nuevo
// (no hay "update exogenous" mutable).
func NewPriceModel(p domain.Params, d domain.ExogenousDraw) PriceModel {
	return PriceModel{Params: p, Draw: d}
}

// MeanUtility devuelve δ_f = β0 + βx·x_f - α·price + ξ_f.
// Falla con ErrUnknownFirm si f no es una empresa reconocida.
func (m PriceModel) MeanUtility(price float64, f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	i := int(f) - 1
	return m.Params.Beta0 + m.Params.BetaX*m.Draw.X[i] - m.Params.Alpha*price + m.Draw.Xi[i], nil
}

// MarginalCost devuelve c_f = exp(γ0 + γx·x_f + γw·w_f + ω_f + c).
// Siempre positivo por construcción.
func (m PriceModel) MarginalCost(f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	i := int(f) - 1
	idx := m.Params.Gamma0 + m.Params.GammaX*m.Draw.X[i] + m.Params.GammaW*m.Draw.W[i] +
		m.Draw.Omega[i] + m.Draw.C
	return math.Exp(idx), nil
}

// Share devuelve la cuota logit de la empresa f dado el par de precios:
// exp(δ_f) / (1 + exp(δ1) + exp(δ2)). El complemento a 1 es la cuota del
// bien exterior.
//
// Nota: la fórmula usa exp directamente, sin log-sum-exp. Índices de
// utilidad extremos pueden desbordar a +Inf; es el comportamiento numérico
// del experimento documentado y se conserva tal cual.
func (m PriceModel) Share(p1, p2 float64, f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	d1, _ := m.MeanUtility(p1, domain.Firm1)
	d2, _ := m.MeanUtility(p2, domain.Firm2)
	e1, e2 := math.Exp(d1), math.Exp(d2)
	denom := 1 + e1 + e2
	if f == domain.Firm1 {
		return e1 / denom, nil
	}
	return e2 / denom, nil
}

// Profit devuelve (p_f - c_f) · s_f.
func (m PriceModel) Profit(p1, p2 float64, f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	c, _ := m.MarginalCost(f)
	s, _ := m.Share(p1, p2, f)
	price := p1
	if f == domain.Firm2 {
		price = p2
	}
	return (price - c) * s, nil
}

// FOC devuelve el residuo de la condición de primer orden de la empresa f:
// p_f - c_f - 1/(α(1-s_f)). En el equilibrio ambas CPO valen cero.
func (m PriceModel) FOC(p1, p2 float64, f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	c, _ := m.MarginalCost(f)
	s, _ := m.Share(p1, p2, f)
	price := p1
	if f == domain.Firm2 {
		price = p2
	}
	return price - c - 1/(m.Params.Alpha*(1-s)), nil
}

// Residual devuelve las dos CPO como función vectorial para el solver.
// Los errores de firm id no aplican aquí (los ids están fijos).
func (m PriceModel) Residual(p []float64) []float64 {
	f1, _ := m.FOC(p[0], p[1], domain.Firm1)
	f2, _ := m.FOC(p[0], p[1], domain.Firm2)
	return []float64{f1, f2}
}

// InitialGuess devuelve el punto de arranque del solver: coste marginal
// más el markup de cuota cero, 1/α. Para shocks moderados queda en la
// cuenca de atracción del punto fijo.
func (m PriceModel) InitialGuess() []float64 {
	c1, _ := m.MarginalCost(domain.Firm1)
	c2, _ := m.MarginalCost(domain.Firm2)
	return []float64{c1 + 1/m.Params.Alpha, c2 + 1/m.Params.Alpha}
}
