// Package montecarlo orquesta el experimento completo: repetir draws
// exógenos independientes, resolver el equilibrio de cada mercado,
// acumular el panel y agregar los estimadores entre muestras.
//
// Todo secuencial y síncrono: cada repetición es estadísticamente
// independiente (embarazosamente paralelo) pero el diseño lo ejecuta en
// serie — no hay estado mutable compartido más allá de la semilla base.
package montecarlo

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/stat"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
	"github.com/alejandrodnm/mcmarkets/internal/equilibrium"
	"github.com/alejandrodnm/mcmarkets/internal/estimate"
	"github.com/alejandrodnm/mcmarkets/internal/model"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

// mezcla de la semilla base con el índice de muestra: constante impar
// grande (golden ratio) para que paneles consecutivos no compartan stream.
const sampleSeedStride = 0x9E3779B97F4A7C15

// Driver ejecuta simulaciones del modelo de competencia en precios.
type Driver struct {
	params domain.Params
	solver solver.Options

	// Logs de progreso y de no-convergencia limitados en frecuencia para
	// que un run de miles de mercados no inunde la consola.
	progress *rate.Sometimes
	warnings *rate.Sometimes
}

// NewDriver valida los parámetros y construye el driver.
func NewDriver(p domain.Params, opts solver.Options) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("montecarlo.NewDriver: %w", err)
	}
	return &Driver{
		params:   p,
		solver:   opts,
		progress: &rate.Sometimes{Interval: 2 * time.Second},
		warnings: &rate.Sometimes{First: 3, Interval: 5 * time.Second},
	}, nil
}

// Params devuelve el set de parámetros estructurales del driver.
func (d *Driver) Params() domain.Params { return d.params }

// SimulateMarket simula un mercado: regenera el draw exógeno de la
// repetición rep (determinista en (seed, rep)), resuelve el equilibrio y
// devuelve el draw junto al record — centinela NaN si el solver falla.
func (d *Driver) SimulateMarket(rep int, seed uint64) (domain.ExogenousDraw, domain.Record) {
	draw := domain.NewExogenousDraw(d.params, seed, uint64(rep))
	m := model.NewPriceModel(d.params, draw)
	rec := equilibrium.SolvePrice(m, nil, d.solver)
	if !rec.Converged {
		d.warnings.Do(func() {
			slog.Warn("market solve did not converge, NaN record kept",
				"rep", rep, "seed", seed)
		})
	}
	return draw, rec
}

// SimulatePanel produce el panel de numMarkets mercados con índice de
// repetición incremental. Mismo (numMarkets, seed) → panel idéntico.
func (d *Driver) SimulatePanel(numMarkets int, seed uint64) *domain.Panel {
	panel := domain.NewPanel(numMarkets, seed)
	for rep := 0; rep < numMarkets; rep++ {
		draw, rec := d.SimulateMarket(rep, seed)
		panel.AppendMarket(rep, draw, rec)
		d.progress.Do(func() {
			slog.Debug("panel progress", "market", rep+1, "of", numMarkets)
		})
	}
	return panel
}

// coefNames en el orden de las columnas del diseño: constante,
// característica observada, precio.
var coefNames = []string{"beta0", "beta_x", "alpha_p"}

// SimulateMonteCarlo corre numSamples paneles independientes, estima OLS
// y 2SLS (IV) sobre cada uno y devuelve media y desviación estándar de
// cada coeficiente entre muestras, anotadas con el valor verdadero.
//
// Las filas con cuotas no positivas o records NaN se descartan antes de
// estimar, reduciendo en silencio el tamaño muestral de esa repetición.
func (d *Driver) SimulateMonteCarlo(numMarkets, numSamples int, seed uint64) (*domain.Summary, error) {
	if numMarkets < 2 || numSamples < 1 {
		return nil, fmt.Errorf("montecarlo.SimulateMonteCarlo: need >=2 markets and >=1 samples, got %d/%d", numMarkets, numSamples)
	}

	k := len(coefNames)
	olsDraws := make([][]float64, k) // coeficiente → valores entre muestras
	ivDraws := make([][]float64, k)
	dropped := 0
	failed := 0

	start := time.Now()
	for s := 0; s < numSamples; s++ {
		sampleSeed := seed ^ (uint64(s+1) * sampleSeedStride)
		panel := d.SimulatePanel(numMarkets, sampleSeed)
		dropped += panel.Dropped()

		ols, iv, err := estimatePanel(panel)
		if err != nil {
			failed++
			d.warnings.Do(func() {
				slog.Warn("sample estimation failed, skipping", "sample", s, "err", err)
			})
			continue
		}
		for j := 0; j < k; j++ {
			olsDraws[j] = append(olsDraws[j], ols[j])
			ivDraws[j] = append(ivDraws[j], iv[j])
		}

		d.progress.Do(func() {
			slog.Info("monte carlo progress",
				"sample", s+1, "of", numSamples, "elapsed", time.Since(start).Round(time.Millisecond))
		})
	}

	if len(olsDraws[0]) == 0 {
		return nil, fmt.Errorf("montecarlo.SimulateMonteCarlo: no sample produced estimates")
	}

	truth := d.params.TrueValues()
	summary := &domain.Summary{
		Markets:    numMarkets,
		Samples:    numSamples,
		Seed:       seed,
		DropTotal:  dropped,
		FailedFits: failed,
	}
	for j, name := range coefNames {
		summary.Stats = append(summary.Stats, domain.CoefStat{
			Estimator: domain.EstimatorOLS,
			Param:     name,
			True:      truth[j],
			Mean:      stat.Mean(olsDraws[j], nil),
			StdDev:    stat.StdDev(olsDraws[j], nil),
		})
	}
	for j, name := range coefNames {
		summary.Stats = append(summary.Stats, domain.CoefStat{
			Estimator: domain.EstimatorIV,
			Param:     name,
			True:      truth[j],
			Mean:      stat.Mean(ivDraws[j], nil),
			StdDev:    stat.StdDev(ivDraws[j], nil),
		})
	}
	return summary, nil
}

// estimatePanel aplica la inversión de Berry al panel y devuelve los
// coeficientes OLS y 2SLS. La regresión es
//
//	ln(s_f) - ln(s_0) = β0 + βx·x_f + βp·p_f + ξ_f
//
// con βp = -α. El precio es endógeno (correlacionado con ξ vía el markup
// de equilibrio); el cost shifter w es el instrumento excluido.
func estimatePanel(panel *domain.Panel) (ols, iv []float64, err error) {
	rows := panel.UsableRows()
	if len(rows) < len(coefNames) {
		return nil, nil, fmt.Errorf("montecarlo.estimatePanel: only %d usable rows", len(rows))
	}

	y := make([]float64, len(rows))
	x := make([][]float64, len(rows))
	z := make([][]float64, len(rows))
	for i, row := range rows {
		y[i] = row.LogShareRatio()
		x[i] = []float64{1, row.X, row.Price}
		z[i] = []float64{1, row.X, row.W}
	}

	ols, err = estimate.OLS(y, x)
	if err != nil {
		return nil, nil, err
	}
	iv, err = estimate.TSLS(y, x, z)
	if err != nil {
		return nil, nil, err
	}
	if !finiteAll(ols) || !finiteAll(iv) {
		return nil, nil, fmt.Errorf("montecarlo.estimatePanel: non-finite coefficients")
	}
	return ols, iv, nil
}

func finiteAll(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
