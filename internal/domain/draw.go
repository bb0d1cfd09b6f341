package domain

import "math/rand/v2"

// ExogenousDraw son las variables aleatorias exógenas de un mercado
// simulado: características observadas, cost shifters y shocks no
// observados para cada empresa, más un shock de coste común al mercado.
//
// Es un value type inmutable: cada repetición construye un draw nuevo con
// NewExogenousDraw en lugar de mutar campos del anterior. Mismo
// (seed, repetition) → draw bit-idéntico.
type ExogenousDraw struct {
	X     [2]float64 // característica observada x_f ~ N(0,1)
	W     [2]float64 // cost shifter observado w_f ~ N(0,1)
	Xi    [2]float64 // shock de demanda ξ_f = σd·N(0,1)
	Omega [2]float64 // shock de coste por empresa ω_f = σω·N(0,1)
	C     float64    // shock de coste común al mercado = σc·N(0,1)
}

// NewExogenousDraw genera el draw de la repetición rep a partir de la
// semilla base. El par (seed, rep) siembra un stream PCG independiente,
// así no hay colisión de semillas entre repeticiones ni entre paneles.
func NewExogenousDraw(p Params, seed, rep uint64) ExogenousDraw {
	rng := rand.New(rand.NewPCG(seed, rep))

	var d ExogenousDraw
	for f := 0; f < 2; f++ {
		d.X[f] = rng.NormFloat64()
		d.W[f] = rng.NormFloat64()
		d.Xi[f] = p.SigmaD * rng.NormFloat64()
		d.Omega[f] = p.SigmaOmega * rng.NormFloat64()
	}
	d.C = p.SigmaC * rng.NormFloat64()
	return d
}

// ZeroDraw devuelve el draw con todos los shocks y características a cero.
// Es el caso del punto fijo documentado: coste marginal e^γ0 y equilibrio
// simétrico.
func ZeroDraw() ExogenousDraw {
	return ExogenousDraw{}
}
