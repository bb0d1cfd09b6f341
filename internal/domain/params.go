package domain

import (
	"errors"
	"fmt"
)

// Firm identifica a una de las dos empresas del duopolio.
type Firm int

const (
	Firm1 Firm = 1
	Firm2 Firm = 2
)

// ErrUnknownFirm se devuelve cuando un id de empresa no es 1 ni 2.
// Es el único error del core que debe propagarse al caller: input malformado.
var ErrUnknownFirm = errors.New("unknown firm id")

// ValidateFirm devuelve ErrUnknownFirm (envuelto con el id recibido)
// si f no es una de las dos empresas reconocidas.
func ValidateFirm(f Firm) error {
	if f != Firm1 && f != Firm2 {
		return fmt.Errorf("domain.ValidateFirm: %w: %d", ErrUnknownFirm, f)
	}
	return nil
}

// Rival devuelve la otra empresa del duopolio.
func (f Firm) Rival() Firm {
	if f == Firm1 {
		return Firm2
	}
	return Firm1
}

// Params son las constantes estructurales del modelo de competencia en
// precios con demanda logit. Inmutable: se construye una vez y nunca se
// modifica — los shocks viven en ExogenousDraw, no aquí.
type Params struct {
	Beta0  float64 // intercepto de demanda
	BetaX  float64 // sensibilidad a la característica observada x
	Alpha  float64 // sensibilidad al precio
	Gamma0 float64 // intercepto del índice de coste
	GammaX float64 // coeficiente de x en el coste
	GammaW float64 // coeficiente del cost shifter w

	SigmaOmega float64 // sd del shock de coste por empresa (ω)
	SigmaC     float64 // sd del shock de coste común al mercado (c)
	SigmaD     float64 // sd del shock de demanda (ξ)
}

// DefaultParams devuelve el set de parámetros del experimento documentado:
// {β0=5, βx=2, α=1, γ0=1, γx=.5, γw=.25, σω=.25, σc=.25, σd=1}.
func DefaultParams() Params {
	return Params{
		Beta0:      5,
		BetaX:      2,
		Alpha:      1,
		Gamma0:     1,
		GammaX:     0.5,
		GammaW:     0.25,
		SigmaOmega: 0.25,
		SigmaC:     0.25,
		SigmaD:     1,
	}
}

// Validate comprueba las restricciones mínimas para que el modelo tenga
// sentido económico (α > 0 para que exista markup finito, sd no negativas).
func (p Params) Validate() error {
	if p.Alpha <= 0 {
		return fmt.Errorf("domain.Params: alpha must be > 0, got %g", p.Alpha)
	}
	if p.SigmaOmega < 0 || p.SigmaC < 0 || p.SigmaD < 0 {
		return fmt.Errorf("domain.Params: shock scales must be >= 0")
	}
	return nil
}

// TrueValues devuelve los coeficientes verdaderos de la regresión de Berry
// (intercepto, característica, precio) para anotar el resumen Monte Carlo.
// El coeficiente del precio es -α.
func (p Params) TrueValues() []float64 {
	return []float64{p.Beta0, p.BetaX, -p.Alpha}
}
