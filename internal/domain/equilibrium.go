package domain

import "math"

// Record es el resultado del solver para un mercado: acciones de
// equilibrio, cantidades derivadas y el flag de convergencia.
//
// Contrato de fallo: si el solver no converge el record viene relleno de
// NaN en lugar de propagar el error, para que un run Monte Carlo largo
// pueda continuar. Converged existe como señal diagnóstica explícita;
// los callers deben comprobar IsValid antes de usar los valores.
type Record struct {
	Prices    [2]float64
	Shares    [2]float64
	Costs     [2]float64
	Profits   [2]float64
	Converged bool
}

// NaNRecord devuelve el record centinela de un solve fallido.
func NaNRecord() Record {
	nan := math.NaN()
	return Record{
		Prices:    [2]float64{nan, nan},
		Shares:    [2]float64{nan, nan},
		Costs:     [2]float64{nan, nan},
		Profits:   [2]float64{nan, nan},
		Converged: false,
	}
}

// IsValid devuelve true si el record converge y todos sus valores son
// finitos.
func (r Record) IsValid() bool {
	if !r.Converged {
		return false
	}
	for f := 0; f < 2; f++ {
		for _, v := range []float64{r.Prices[f], r.Shares[f], r.Costs[f], r.Profits[f]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// OutsideShare devuelve la cuota del bien exterior: 1 - s1 - s2.
func (r Record) OutsideShare() float64 {
	return 1 - r.Shares[0] - r.Shares[1]
}

// QualityRecord es el equivalente de Record para la variante de
// competencia en calidad: calidades, cantidades, beneficios y la
// descomposición de bienestar.
type QualityRecord struct {
	Qualities       [2]float64
	Quantities      [2]float64
	Profits         [2]float64
	FOCs            [2]float64 // residuos de las CPO en la solución
	ConsumerSurplus float64
	Welfare         float64
	Converged       bool
}

// NaNQualityRecord devuelve el centinela NaN de la variante de calidad.
func NaNQualityRecord() QualityRecord {
	nan := math.NaN()
	return QualityRecord{
		Qualities:       [2]float64{nan, nan},
		Quantities:      [2]float64{nan, nan},
		Profits:         [2]float64{nan, nan},
		FOCs:            [2]float64{nan, nan},
		ConsumerSurplus: nan,
		Welfare:         nan,
	}
}

// IsValid devuelve true si el solve convergió con valores finitos.
func (r QualityRecord) IsValid() bool {
	if !r.Converged {
		return false
	}
	for f := 0; f < 2; f++ {
		if math.IsNaN(r.Qualities[f]) || math.IsNaN(r.Quantities[f]) || math.IsNaN(r.Profits[f]) {
			return false
		}
	}
	return true
}
