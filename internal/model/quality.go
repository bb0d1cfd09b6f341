package model

import (
	"math"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

// QualityModel es la variante de competencia en calidad: dos empresas en
// una línea de Hotelling con precio fijo p eligen calidad x_i. Los
// consumidores, indexados por posición b ∈ [0,1], valoran la calidad μ·x
// y pagan coste de transporte t hasta la empresa. La empresa i produce con
// coste (μ/γ_i)·x², de modo que γ_i es su productividad.
type QualityModel struct {
	T      float64 // coste de transporte
	Mu     float64 // valoración (gasto medio) de la calidad
	P      float64 // precio fijo
	Gamma1 float64 // productividad de la empresa 1
	Gamma2 float64 // productividad de la empresa 2
}

// DefaultQualityModel devuelve la calibración del experimento:
// t=1, μ=10, p=10, γ1=1.5, γ2=1.
func DefaultQualityModel() QualityModel {
	return QualityModel{T: 1, Mu: 10, P: 10, Gamma1: 1.5, Gamma2: 1}
}

func (m QualityModel) gamma(f domain.Firm) float64 {
	if f == domain.Firm1 {
		return m.Gamma1
	}
	return m.Gamma2
}

// Cost devuelve el coste de producir calidad x: (μ/γ_i)·x².
func (m QualityModel) Cost(f domain.Firm, x float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	return m.Mu * x * x / m.gamma(f), nil
}

// MarginalCost devuelve 2μx/γ_i. Positivo para toda calidad x > 0.
func (m QualityModel) MarginalCost(f domain.Firm, x float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	return 2 * m.Mu * x / m.gamma(f), nil
}

// Utility devuelve la utilidad bruta de consumir calidad x: μ·x.
func (m QualityModel) Utility(x float64) float64 {
	return m.Mu * x
}

// TransportCost devuelve el coste de transporte del consumidor b hasta la
// empresa f: t·b hacia la 1, t·(1-b) hacia la 2.
func (m QualityModel) TransportCost(f domain.Firm, b float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	if f == domain.Firm1 {
		return m.T * b, nil
	}
	return m.T * (1 - b), nil
}

// MarginalB devuelve la posición del consumidor indiferente entre ambas
// empresas, recortada a [0,1].
func (m QualityModel) MarginalB(x1, x2 float64) float64 {
	b := (m.Mu*(x1-x2) + m.T) / (2 * m.T)
	return math.Min(1, math.Max(0, b))
}

// Quantity devuelve la demanda de la empresa f dado el par de calidades:
// la masa de consumidores a su lado del marginal.
func (m QualityModel) Quantity(f domain.Firm, x1, x2 float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	b := m.MarginalB(x1, x2)
	if f == domain.Firm1 {
		return b, nil
	}
	return 1 - b, nil
}

// Profit devuelve q_f · (p - C_f(x_f)).
func (m QualityModel) Profit(f domain.Firm, x1, x2 float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	x := x1
	if f == domain.Firm2 {
		x = x2
	}
	q, _ := m.Quantity(f, x1, x2)
	c, _ := m.Cost(f, x)
	return q * (m.P - c), nil
}

// FOC devuelve la condición de primer orden cerrada de la empresa f:
// dq/dx·(p - C) - q·MC, con dq/dx = μ/(2t) para ambas empresas.
func (m QualityModel) FOC(f domain.Firm, x1, x2 float64) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	x := x1
	if f == domain.Firm2 {
		x = x2
	}
	dq := m.Mu / (2 * m.T)
	q, _ := m.Quantity(f, x1, x2)
	c, _ := m.Cost(f, x)
	mc, _ := m.MarginalCost(f, x)
	return dq*(m.P-c) - q*mc, nil
}

// QualityCap devuelve la calidad máxima rentable de la empresa f,
// sqrt(γ_i·p/μ): por encima el coste supera al precio.
func (m QualityModel) QualityCap(f domain.Firm) (float64, error) {
	if err := domain.ValidateFirm(f); err != nil {
		return 0, err
	}
	return math.Sqrt(m.gamma(f) * m.P / m.Mu), nil
}

// ConsumerSurplus devuelve el excedente de los compradores de la empresa
// f, o el total del mercado si f == 0.
func (m QualityModel) ConsumerSurplus(f domain.Firm, x1, x2 float64) float64 {
	q1, _ := m.Quantity(domain.Firm1, x1, x2)
	q2, _ := m.Quantity(domain.Firm2, x1, x2)
	switch f {
	case domain.Firm1:
		return (m.Utility(x1) - m.P) * q1
	case domain.Firm2:
		return (m.Utility(x2) - m.P) * q2
	default:
		return m.Utility(x1)*q1 + m.Utility(x2)*q2 - m.P
	}
}

// Welfare devuelve CS total + beneficios de ambas empresas.
func (m QualityModel) Welfare(x1, x2 float64) float64 {
	pi1, _ := m.Profit(domain.Firm1, x1, x2)
	pi2, _ := m.Profit(domain.Firm2, x1, x2)
	return m.ConsumerSurplus(0, x1, x2) + pi1 + pi2
}

// MaxWelfare devuelve la calidad que maximiza el bienestar cuando toda la
// producción la hace la empresa más productiva, y el bienestar resultante.
func (m QualityModel) MaxWelfare() (x, w float64) {
	f := domain.Firm1
	if m.Gamma2 > m.Gamma1 {
		f = domain.Firm2
	}
	// Con utilidad lineal μ·x el óptimo iguala μ al coste marginal 2μx/γ.
	x = m.gamma(f) / 2
	c, _ := m.Cost(f, x)
	w = m.Utility(x) - c
	return x, w
}

// Residual devuelve las dos CPO como función vectorial para el solver,
// con la penalización del experimento original: calidades fuera de rango
// o beneficios negativos devuelven un residuo enorme para expulsar al
// solver de esa región.
func (m QualityModel) Residual(x []float64) []float64 {
	x1, x2 := x[0], x[1]
	f1, _ := m.FOC(domain.Firm1, x1, x2)
	f2, _ := m.FOC(domain.Firm2, x1, x2)
	cap1, _ := m.QualityCap(domain.Firm1)
	cap2, _ := m.QualityCap(domain.Firm2)
	pi1, _ := m.Profit(domain.Firm1, x1, x2)
	pi2, _ := m.Profit(domain.Firm2, x1, x2)

	const penalty = 10e9
	if x1 > cap1 || x1 < 0 || pi1 < 0 {
		f1 = penalty
	}
	if x2 > cap2 || x2 < 0 || pi2 < 0 {
		f2 = penalty
	}
	return []float64{f1, f2}
}
