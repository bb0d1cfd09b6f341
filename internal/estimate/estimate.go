// Package estimate implementa los estimadores que el driver Monte Carlo
// consume como cajas negras: mínimos cuadrados ordinarios y mínimos
// cuadrados en dos etapas (variables instrumentales, exactamente
// identificado). Solo coeficientes — la dispersión relevante es la
// empírica entre muestras Monte Carlo, no los errores estándar.
package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OLS regresa y sobre las columnas de X (incluida la constante si el
// caller la añadió) y devuelve el vector de coeficientes. Resuelve el
// problema de mínimos cuadrados vía QR (mat.VecDense.SolveVec).
func OLS(y []float64, x [][]float64) ([]float64, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("estimate.OLS: %d rows of y, %d of x", n, len(x))
	}
	k := len(x[0])
	if n < k {
		return nil, fmt.Errorf("estimate.OLS: %d rows for %d regressors", n, k)
	}

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("estimate.OLS: row %d has %d cols, want %d", i, len(row), k)
		}
		design.SetRow(i, row)
	}
	dep := mat.NewVecDense(n, y)

	coefs := mat.NewVecDense(k, nil)
	if err := coefs.SolveVec(design, dep); err != nil {
		return nil, fmt.Errorf("estimate.OLS: solve: %w", err)
	}
	return append([]float64(nil), coefs.RawVector().Data...), nil
}

// TSLS estima y = Xβ por mínimos cuadrados en dos etapas usando Z como
// matriz de instrumentos (mismo número de columnas que X: caso exactamente
// identificado; las columnas exógenas de X se repiten en Z y la endógena
// se sustituye por el instrumento excluido).
//
// Primera etapa: cada columna de X se proyecta sobre Z. Segunda etapa:
// OLS de y sobre los valores ajustados.
func TSLS(y []float64, x, z [][]float64) ([]float64, error) {
	n := len(y)
	if n == 0 || len(x) != n || len(z) != n {
		return nil, fmt.Errorf("estimate.TSLS: %d rows of y, %d of x, %d of z", n, len(x), len(z))
	}
	k := len(x[0])
	if len(z[0]) != k {
		return nil, fmt.Errorf("estimate.TSLS: %d instruments for %d regressors (need exact identification)", len(z[0]), k)
	}
	if n < k {
		return nil, fmt.Errorf("estimate.TSLS: %d rows for %d regressors", n, k)
	}

	xm := mat.NewDense(n, k, nil)
	zm := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		xm.SetRow(i, x[i])
		zm.SetRow(i, z[i])
	}

	// Primera etapa: Π = (Z'Z)⁻¹Z'X por mínimos cuadrados, X̂ = Z·Π.
	var proj mat.Dense
	if err := proj.Solve(zm, xm); err != nil {
		return nil, fmt.Errorf("estimate.TSLS: first stage: %w", err)
	}
	var fitted mat.Dense
	fitted.Mul(zm, &proj)

	// Segunda etapa: OLS de y sobre X̂.
	dep := mat.NewVecDense(n, y)
	coefs := mat.NewVecDense(k, nil)
	if err := coefs.SolveVec(&fitted, dep); err != nil {
		return nil, fmt.Errorf("estimate.TSLS: second stage: %w", err)
	}
	return append([]float64(nil), coefs.RawVector().Data...), nil
}
