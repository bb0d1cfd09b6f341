// Package quadrature expone utilidades de cuadratura de Gauss-Hermite
// para calcular esperanzas de funciones de variables normales y
// lognormales sin simular. Los nodos y pesos vienen de la regla Hermite
// de gonum (peso e^{-x²}).
package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Rule son los nodos y pesos de una regla de Gauss-Hermite de n puntos:
// Σ wᵢ·g(xᵢ) ≈ ∫ e^{-x²}·g(x) dx. Los pesos suman √π.
type Rule struct {
	Nodes   []float64
	Weights []float64
}

// NewRule genera la regla de n puntos. n debe ser positivo.
func NewRule(n int) (Rule, error) {
	if n <= 0 {
		return Rule{}, fmt.Errorf("quadrature.NewRule: n must be > 0, got %d", n)
	}
	nodes := make([]float64, n)
	weights := make([]float64, n)
	quad.Hermite{}.FixedLocations(nodes, weights, math.Inf(-1), math.Inf(1))
	return Rule{Nodes: nodes, Weights: weights}, nil
}

// ExpectNormal devuelve E[g(X)] con X ~ N(mu, sigma²) usando el cambio de
// variable x = mu + √2·sigma·t sobre la regla.
func (r Rule) ExpectNormal(g func(float64) float64, mu, sigma float64) float64 {
	sum := 0.0
	for i, t := range r.Nodes {
		sum += r.Weights[i] * g(mu+math.Sqrt2*sigma*t)
	}
	return sum / math.Sqrt(math.Pi)
}

// ExpectLogNormal devuelve E[g(L)] con L = exp(X), X ~ N(mu, sigma²).
func (r Rule) ExpectLogNormal(g func(float64) float64, mu, sigma float64) float64 {
	return r.ExpectNormal(func(x float64) float64 { return g(math.Exp(x)) }, mu, sigma)
}
