package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/model"
)

// Console implementa ports.Notifier escribiendo a stdout. En modo compacto
// imprime una línea por resultado; con table=true imprime tablas completas.
type Console struct {
	out     io.Writer
	table   bool
	preview int // filas de panel a mostrar en modo tabla
}

// NewConsole crea el notificador por defecto.
func NewConsole(table bool, preview int) *Console {
	if preview <= 0 {
		preview = 10
	}
	return &Console{out: os.Stdout, table: table, preview: preview}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, preview: 10}
}

// NotifyPanel imprime el panel simulado: resumen de una línea y, en modo
// tabla, las primeras filas.
func (c *Console) NotifyPanel(_ context.Context, panel *domain.Panel) error {
	now := time.Now().Format("15:04:05")
	dropped := panel.Dropped()
	fmt.Fprintf(c.out, "[%s] panel: %d markets (%d rows, %d unusable) seed=%d\n",
		now, panel.Markets(), len(panel.Rows), dropped, panel.Seed)

	if !c.table || len(panel.Rows) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Mkt", "Firm", "Price", "Share", "Outside", "x", "w", "Cost", "Profit", "Conv")

	n := min(c.preview, len(panel.Rows))
	for _, row := range panel.Rows[:n] {
		table.Append(
			fmt.Sprintf("%d", row.MarketID),
			fmt.Sprintf("%d", row.Firm),
			fnum(row.Price), fnum(row.Share), fnum(row.Outside),
			fnum(row.X), fnum(row.W), fnum(row.Cost), fnum(row.Profit),
			convLabel(row.Converged),
		)
	}
	table.Render()
	if n < len(panel.Rows) {
		fmt.Fprintf(c.out, "  ... %d more rows\n", len(panel.Rows)-n)
	}
	return nil
}

// NotifySummary imprime el resumen Monte Carlo como tabla de dos niveles
// (estimador × parámetro) con media, sd y sesgo frente al valor verdadero.
func (c *Console) NotifySummary(_ context.Context, s *domain.Summary) error {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "[%s] monte carlo: %d samples × %d markets (dropped rows: %d, failed fits: %d)\n",
		now, s.Samples, s.Markets, s.DropTotal, s.FailedFits)

	if !c.table {
		// Modo compacto: solo el coeficiente que motiva el experimento.
		ols, _ := s.Get(domain.EstimatorOLS, "alpha_p")
		iv, _ := s.Get(domain.EstimatorIV, "alpha_p")
		fmt.Fprintf(c.out, "  alpha_p true=%.2f  OLS=%.3f (bias %+.3f)  IV=%.3f (bias %+.3f)\n",
			ols.True, ols.Mean, ols.Bias(), iv.Mean, iv.Bias())
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Estimator", "Param", "True", "Mean", "StdDev", "Bias")
	for _, st := range s.Stats {
		table.Append(
			string(st.Estimator), st.Param,
			fmt.Sprintf("%.4f", st.True),
			fmt.Sprintf("%.4f", st.Mean),
			fmt.Sprintf("%.4f", st.StdDev),
			fmt.Sprintf("%+.4f", st.Bias()),
		)
	}
	table.Render()

	fmt.Fprintln(c.out, "  alpha_p = coeficiente del precio (= -alpha). El sesgo OLS")
	fmt.Fprintln(c.out, "  viene de la endogeneidad del precio; IV lo corrige con w.")
	return nil
}

// PrintDuopoly imprime el equilibrio del juego de calidad junto al
// benchmark de bienestar máximo.
func (c *Console) PrintDuopoly(m model.QualityModel, rec domain.QualityRecord) {
	if !rec.IsValid() {
		fmt.Fprintln(c.out, "duopoly: solver did not converge (NaN record)")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Firm", "Quality", "Quantity", "Profit", "FOC")
	for f := 0; f < 2; f++ {
		table.Append(
			fmt.Sprintf("%d", f+1),
			fnum(rec.Qualities[f]), fnum(rec.Quantities[f]),
			fnum(rec.Profits[f]), fmt.Sprintf("%.2e", rec.FOCs[f]),
		)
	}
	table.Render()

	xStar, wStar := m.MaxWelfare()
	fmt.Fprintf(c.out, "  CS=%.4f  welfare=%.4f  (first-best: x=%.4f w=%.4f)\n",
		rec.ConsumerSurplus, rec.Welfare, xStar, wStar)
}

// PrintWTP imprime la curva de disposición a pagar por cobertura.
func (c *Console) PrintWTP(expectedLoss float64, phis, wtps []float64) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Coverage", "WTP", "WTP - E[L]·cov")
	for i := range phis {
		table.Append(
			fmt.Sprintf("%.2f", phis[i]),
			fmt.Sprintf("%.4f", wtps[i]),
			fmt.Sprintf("%+.4f", wtps[i]-expectedLoss*phis[i]),
		)
	}
	table.Render()
	fmt.Fprintf(c.out, "  E[L]=%.4f — la columna derecha es la prima de riesgo pagada\n", expectedLoss)
}

func fnum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func convLabel(b bool) string {
	if b {
		return "yes"
	}
	return "NO"
}
