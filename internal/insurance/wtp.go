// Package insurance calcula la disposición a pagar (WTP) de un agente
// CARA por contratos de seguro con cobertura parcial de una pérdida
// aleatoria. Las esperanzas se calculan por cuadratura de Gauss-Hermite;
// las distribuciones de pérdida son objetos distuv de gonum.
package insurance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/alejandrodnm/mcmarkets/internal/quadrature"
)

// LossKind selecciona la distribución de la pérdida.
type LossKind string

const (
	LossNormal    LossKind = "normal"
	LossLogNormal LossKind = "lognormal"
)

// Contract describe el problema: riqueza inicial, aversión absoluta al
// riesgo a (utilidad CARA u(c) = -e^{-ac}) y la distribución de la
// pérdida L. Mu/Sigma son la media/sd de L si es normal, o los parámetros
// de log(L) si es lognormal.
type Contract struct {
	Wealth float64
	CARA   float64
	Loss   LossKind
	Mu     float64
	Sigma  float64
	Nodes  int // puntos de cuadratura (default 32)
}

// Validate comprueba los parámetros del contrato.
func (c Contract) Validate() error {
	if c.CARA <= 0 {
		return fmt.Errorf("insurance.Contract: CARA coefficient must be > 0, got %g", c.CARA)
	}
	if c.Sigma < 0 {
		return fmt.Errorf("insurance.Contract: sigma must be >= 0, got %g", c.Sigma)
	}
	if c.Loss != LossNormal && c.Loss != LossLogNormal {
		return fmt.Errorf("insurance.Contract: unknown loss kind %q", c.Loss)
	}
	return nil
}

func (c Contract) nodes() int {
	if c.Nodes <= 0 {
		return 32
	}
	return c.Nodes
}

// ExpectedLoss devuelve E[L] en forma cerrada vía distuv.
func (c Contract) ExpectedLoss() float64 {
	switch c.Loss {
	case LossLogNormal:
		return distuv.LogNormal{Mu: c.Mu, Sigma: c.Sigma}.Mean()
	default:
		return distuv.Normal{Mu: c.Mu, Sigma: c.Sigma}.Mean()
	}
}

// mgf devuelve E[e^{t·L}] por cuadratura (para pérdida normal existe forma
// cerrada, pero se usa el mismo camino numérico para ambas distribuciones;
// los tests cruzan contra la forma cerrada).
func (c Contract) mgf(t float64) (float64, error) {
	rule, err := quadrature.NewRule(c.nodes())
	if err != nil {
		return 0, err
	}
	g := func(l float64) float64 { return math.Exp(t * l) }
	if c.Loss == LossLogNormal {
		return rule.ExpectLogNormal(g, c.Mu, c.Sigma), nil
	}
	return rule.ExpectNormal(g, c.Mu, c.Sigma), nil
}

// WTP devuelve la prima máxima que el agente pagaría por un contrato que
// cubre la fracción coverage ∈ [0,1] de la pérdida, frente a quedarse sin
// asegurar. Bajo CARA la condición de indiferencia
//
//	E[u(W - π - (1-φ)L)] = E[u(W - L)]
//
// se resuelve en cerrado sobre las funciones generadoras:
//
//	π*(φ) = (1/a)·ln( E[e^{aL}] / E[e^{a(1-φ)L}] )
//
// Cobertura total: π* es el equivalente cierto de L.
func (c Contract) WTP(coverage float64) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if coverage < 0 || coverage > 1 {
		return 0, fmt.Errorf("insurance.Contract.WTP: coverage must be in [0,1], got %g", coverage)
	}

	full, err := c.mgf(c.CARA)
	if err != nil {
		return 0, err
	}
	residual, err := c.mgf(c.CARA * (1 - coverage))
	if err != nil {
		return 0, err
	}
	return math.Log(full/residual) / c.CARA, nil
}

// RiskPremium devuelve WTP(cobertura total) - E[L]: lo que el agente paga
// por encima de la pérdida esperada solo por eliminar el riesgo. No
// negativo para todo agente averso al riesgo.
func (c Contract) RiskPremium() (float64, error) {
	wtp, err := c.WTP(1)
	if err != nil {
		return 0, err
	}
	return wtp - c.ExpectedLoss(), nil
}

// Curve devuelve la WTP evaluada en una rejilla de coberturas
// equiespaciadas de steps+1 puntos entre 0 y 1, para tabular.
func (c Contract) Curve(steps int) ([]float64, []float64, error) {
	if steps < 1 {
		return nil, nil, fmt.Errorf("insurance.Contract.Curve: steps must be >= 1, got %d", steps)
	}
	phis := make([]float64, steps+1)
	wtps := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		phi := float64(i) / float64(steps)
		w, err := c.WTP(phi)
		if err != nil {
			return nil, nil, err
		}
		phis[i] = phi
		wtps[i] = w
	}
	return phis, wtps, nil
}
