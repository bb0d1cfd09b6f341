// Package equilibrium resuelve los puntos fijos de mejor respuesta de los
// modelos de mercado y deriva las cantidades dependientes en la solución.
//
// Semántica de fallo: la no-convergencia del solver NO se propaga — se
// devuelve un record centinela relleno de NaN con Converged=false, para
// que un run Monte Carlo largo continúe tras un draw sin equilibrio
// alcanzable. El caller decide si loguea o descarta.
package equilibrium

import (
	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/model"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

// SolvePrice busca el equilibrio de Nash en precios del modelo logit:
// el par (p1, p2) que anula ambas CPO p_f = c_f + 1/(α(1-s_f)). guess
// puede ser nil para usar el arranque por defecto del modelo.
//
// No se intenta detectar multiplicidad de puntos fijos: se devuelve la
// raíz a la que converge el guess (cuestión abierta heredada del diseño).
func SolvePrice(m model.PriceModel, guess []float64, opts solver.Options) domain.Record {
	if guess == nil {
		guess = m.InitialGuess()
	}
	sol, err := solver.Solve(m.Residual, guess, opts)
	if err != nil {
		return domain.NaNRecord()
	}

	p1, p2 := sol.Root[0], sol.Root[1]
	var rec domain.Record
	rec.Prices = [2]float64{p1, p2}
	for f := domain.Firm1; f <= domain.Firm2; f++ {
		i := int(f) - 1
		rec.Shares[i], _ = m.Share(p1, p2, f)
		rec.Costs[i], _ = m.MarginalCost(f)
		rec.Profits[i], _ = m.Profit(p1, p2, f)
	}
	rec.Converged = true
	return rec
}

// SolveQuality resuelve el juego de calidad: el par (x1, x2) que anula
// las CPO cerradas del modelo de Hotelling. guess nil usa (0.9, 0.7),
// el arranque del experimento original.
func SolveQuality(m model.QualityModel, guess []float64, opts solver.Options) domain.QualityRecord {
	if guess == nil {
		guess = []float64{0.9, 0.7}
	}
	sol, err := solver.Solve(m.Residual, guess, opts)
	if err != nil {
		return domain.NaNQualityRecord()
	}

	x1, x2 := sol.Root[0], sol.Root[1]
	var rec domain.QualityRecord
	rec.Qualities = [2]float64{x1, x2}
	for f := domain.Firm1; f <= domain.Firm2; f++ {
		i := int(f) - 1
		rec.Quantities[i], _ = m.Quantity(f, x1, x2)
		rec.Profits[i], _ = m.Profit(f, x1, x2)
		rec.FOCs[i], _ = m.FOC(f, x1, x2)
	}
	rec.ConsumerSurplus = m.ConsumerSurplus(0, x1, x2)
	rec.Welfare = m.Welfare(x1, x2)
	rec.Converged = true
	return rec
}
