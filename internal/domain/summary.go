package domain

// Estimator identifica la rutina de estimación aplicada al panel.
type Estimator string

const (
	EstimatorOLS Estimator = "OLS"
	EstimatorIV  Estimator = "IV"
)

// CoefStat son los estadísticos Monte Carlo de un coeficiente bajo un
// estimador: media y desviación estándar entre muestras independientes,
// junto al valor verdadero del modelo para comparar.
type CoefStat struct {
	Estimator Estimator
	Param     string  // "beta0" | "beta_x" | "alpha_p"
	True      float64 // valor estructural verdadero
	Mean      float64
	StdDev    float64
}

// Bias devuelve la desviación media respecto al valor verdadero.
func (s CoefStat) Bias() float64 {
	return s.Mean - s.True
}

// Summary es el resultado agregado de un run Monte Carlo completo:
// estadísticos por (estimador × coeficiente), más metadatos del run.
// Se calcula una vez al final y es de solo lectura.
type Summary struct {
	Stats      []CoefStat
	Markets    int
	Samples    int
	Seed       uint64
	DropTotal  int // filas descartadas en total entre todas las muestras
	FailedFits int // muestras donde algún estimador no pudo ajustarse
}

// Get devuelve el estadístico de (estimator, param) y true si existe.
func (s *Summary) Get(e Estimator, param string) (CoefStat, bool) {
	for _, st := range s.Stats {
		if st.Estimator == e && st.Param == param {
			return st, true
		}
	}
	return CoefStat{}, false
}
