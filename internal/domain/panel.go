package domain

import "math"

// PanelRow es una fila del panel de mercados: una observación por empresa
// y mercado, con el precio y la cuota de equilibrio junto a las exógenas
// que el econometrista observa (x, w) y las que no (ξ, coste, beneficio).
type PanelRow struct {
	MarketID  int
	Firm      Firm
	Price     float64
	Share     float64
	Outside   float64 // cuota del bien exterior del mercado
	X         float64
	W         float64
	Cost      float64
	Profit    float64
	Converged bool
}

// Panel es la colección ordenada de observaciones de numMarkets mercados
// simulados, dos filas por mercado. Se construye incrementalmente con
// AppendMarket y después es de solo lectura.
type Panel struct {
	Rows []PanelRow
	Seed uint64
}

// NewPanel crea un panel vacío con capacidad para n mercados.
func NewPanel(n int, seed uint64) *Panel {
	return &Panel{Rows: make([]PanelRow, 0, 2*n), Seed: seed}
}

// AppendMarket añade las dos filas del mercado id a partir del draw y del
// record de equilibrio (convergido o centinela NaN).
func (p *Panel) AppendMarket(id int, d ExogenousDraw, r Record) {
	outside := r.OutsideShare()
	for f := 0; f < 2; f++ {
		p.Rows = append(p.Rows, PanelRow{
			MarketID:  id,
			Firm:      Firm(f + 1),
			Price:     r.Prices[f],
			Share:     r.Shares[f],
			Outside:   outside,
			X:         d.X[f],
			W:         d.W[f],
			Cost:      r.Costs[f],
			Profit:    r.Profits[f],
			Converged: r.Converged,
		})
	}
}

// Markets devuelve el número de mercados del panel.
func (p *Panel) Markets() int {
	return len(p.Rows) / 2
}

// LogShareRatio devuelve la variable dependiente de la inversión de Berry
// para la fila: ln(s_f) - ln(s_0). Puede ser ±Inf o NaN si alguna cuota no
// es positiva; el caller decide si descarta la fila.
func (row PanelRow) LogShareRatio() float64 {
	return math.Log(row.Share) - math.Log(row.Outside)
}

// Usable devuelve true si la fila puede entrar en una regresión: record
// convergido y variable dependiente finita. Las filas con cuotas no
// positivas o centinelas NaN se excluyen silenciosamente (política del
// driver: reduce el tamaño muestral efectivo de esa repetición).
func (row PanelRow) Usable() bool {
	if !row.Converged {
		return false
	}
	y := row.LogShareRatio()
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return false
	}
	return !math.IsNaN(row.Price) && !math.IsInf(row.Price, 0)
}

// UsableRows devuelve las filas aptas para estimación.
func (p *Panel) UsableRows() []PanelRow {
	out := make([]PanelRow, 0, len(p.Rows))
	for _, row := range p.Rows {
		if row.Usable() {
			out = append(out, row)
		}
	}
	return out
}

// Dropped devuelve cuántas filas del panel quedarían fuera de una
// regresión (no convergidas o con derivadas no finitas).
func (p *Panel) Dropped() int {
	n := 0
	for _, row := range p.Rows {
		if !row.Usable() {
			n++
		}
	}
	return n
}
