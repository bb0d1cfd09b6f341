// Package solver expone un root-finder multivariado de propósito general.
// El contrato es el mínimo que necesita el resto del repo: dada una función
// residual y un punto inicial, devolver una raíz o señalar no-convergencia.
// La lógica de convergencia vive aquí, no en los modelos.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// ErrNoConverge señala que ningún método alcanzó la tolerancia. Los
// callers del Monte Carlo lo convierten en un record centinela NaN en
// lugar de abortar el run.
var ErrNoConverge = errors.New("solver did not converge")

// Residual es la función vectorial F cuya raíz se busca: F(x) = 0.
type Residual func(x []float64) []float64

// Options controla el solve. El zero value usa los defaults.
type Options struct {
	Tol         float64 // tolerancia sobre ‖F(x)‖∞ (default 1e-10)
	FallbackTol float64 // tolerancia aceptable tras el fallback (default 1e-6)
	MaxIter     int     // iteraciones Broyden (default 200)
	FDStep      float64 // paso de diferencias finitas para el jacobiano inicial
}

func (o Options) withDefaults() Options {
	if o.Tol <= 0 {
		o.Tol = 1e-10
	}
	if o.FallbackTol <= 0 {
		o.FallbackTol = 1e-6
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 200
	}
	if o.FDStep <= 0 {
		o.FDStep = 1e-7
	}
	return o
}

// Result es la salida de un solve convergido.
type Result struct {
	Root       []float64
	Residual   []float64 // F evaluada en la raíz
	Norm       float64   // ‖F(raíz)‖∞
	Iterations int
	Fallback   bool // true si la raíz vino del minimizador de respaldo
}

// Solve busca una raíz de F partiendo de x0 con el método de Broyden
// (quasi-Newton: jacobiano inicial por diferencias finitas, actualización
// de rango uno, damping por backtracking). Si Broyden no converge se
// minimiza ½‖F‖² con Nelder-Mead (gonum/optimize) y se acepta el punto si
// el residuo queda por debajo de FallbackTol. Si nada funciona devuelve
// ErrNoConverge.
func Solve(f Residual, x0 []float64, opts Options) (Result, error) {
	opts = opts.withDefaults()
	n := len(x0)
	if n == 0 {
		return Result{}, fmt.Errorf("solver.Solve: empty initial guess")
	}

	res, err := broyden(f, x0, opts)
	if err == nil {
		return res, nil
	}

	fb, fbErr := fallback(f, x0, opts)
	if fbErr == nil {
		return fb, nil
	}
	return Result{}, fmt.Errorf("solver.Solve: %w", ErrNoConverge)
}

// broyden es el método "bueno" de Broyden con búsqueda de paso por
// bisección simple: si el paso completo no reduce ‖F‖ se recorta a la
// mitad hasta maxBacktracks veces.
func broyden(f Residual, x0 []float64, opts Options) (Result, error) {
	const maxBacktracks = 8

	n := len(x0)
	x := mat.NewVecDense(n, append([]float64(nil), x0...))
	fx := mat.NewVecDense(n, f(x.RawVector().Data))
	if !allFinite(fx.RawVector().Data) {
		return Result{}, ErrNoConverge
	}

	jac := fdJacobian(f, x.RawVector().Data, fx.RawVector().Data, opts.FDStep)

	for iter := 1; iter <= opts.MaxIter; iter++ {
		if normInf(fx.RawVector().Data) < opts.Tol {
			return Result{
				Root:       append([]float64(nil), x.RawVector().Data...),
				Residual:   append([]float64(nil), fx.RawVector().Data...),
				Norm:       normInf(fx.RawVector().Data),
				Iterations: iter - 1,
			}, nil
		}

		// Paso de Newton: J·dx = -F(x)
		var dx mat.VecDense
		var neg mat.VecDense
		neg.ScaleVec(-1, fx)
		if err := dx.SolveVec(jac, &neg); err != nil {
			// Jacobiano singular: se reestima por diferencias finitas.
			jac = fdJacobian(f, x.RawVector().Data, fx.RawVector().Data, opts.FDStep)
			if err := dx.SolveVec(jac, &neg); err != nil {
				return Result{}, ErrNoConverge
			}
		}

		// Backtracking: aceptar el primer recorte que reduzca ‖F‖.
		baseNorm := normInf(fx.RawVector().Data)
		step := 1.0
		var xNew, fNew *mat.VecDense
		accepted := false
		for k := 0; k <= maxBacktracks; k++ {
			cand := mat.NewVecDense(n, nil)
			cand.AddScaledVec(x, step, &dx)
			fc := mat.NewVecDense(n, f(cand.RawVector().Data))
			if allFinite(fc.RawVector().Data) && normInf(fc.RawVector().Data) < baseNorm {
				xNew, fNew = cand, fc
				accepted = true
				break
			}
			step /= 2
		}
		if !accepted {
			// Último intento con el paso mínimo aunque no mejore.
			cand := mat.NewVecDense(n, nil)
			cand.AddScaledVec(x, step, &dx)
			fc := mat.NewVecDense(n, f(cand.RawVector().Data))
			if !allFinite(fc.RawVector().Data) {
				return Result{}, ErrNoConverge
			}
			xNew, fNew = cand, fc
		}

		// Actualización de Broyden: J += (Δf - J·Δx)·Δxᵀ / (Δxᵀ·Δx)
		var deltaX, deltaF mat.VecDense
		deltaX.SubVec(xNew, x)
		deltaF.SubVec(fNew, fx)
		var jdx mat.VecDense
		jdx.MulVec(jac, &deltaX)
		var diff mat.VecDense
		diff.SubVec(&deltaF, &jdx)
		denom := mat.Dot(&deltaX, &deltaX)
		if denom > 0 {
			var update mat.Dense
			update.Outer(1/denom, &diff, &deltaX)
			jac.Add(jac, &update)
		}

		x, fx = xNew, fNew
	}

	if normInf(fx.RawVector().Data) < opts.Tol {
		return Result{
			Root:       append([]float64(nil), x.RawVector().Data...),
			Residual:   append([]float64(nil), fx.RawVector().Data...),
			Norm:       normInf(fx.RawVector().Data),
			Iterations: opts.MaxIter,
		}, nil
	}
	return Result{}, ErrNoConverge
}

// fallback minimiza ½‖F‖² con Nelder-Mead. No necesita gradiente y es
// robusto frente a los residuos con penalización discontinua del modelo
// de calidad.
func fallback(f Residual, x0 []float64, opts Options) (Result, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fx := f(x)
			sum := 0.0
			for _, v := range fx {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return math.Inf(1)
				}
				sum += v * v
			}
			return 0.5 * sum
		},
	}

	result, err := optimize.Minimize(problem, append([]float64(nil), x0...), nil, &optimize.NelderMead{})
	if result == nil {
		return Result{}, ErrNoConverge
	}
	// Minimize puede devolver error por criterios internos aunque el punto
	// sea una raíz aceptable: lo que manda es el residuo final.
	fx := f(result.X)
	norm := normInf(fx)
	if !allFinite(fx) || norm >= opts.FallbackTol {
		if err != nil {
			return Result{}, fmt.Errorf("fallback: %w", err)
		}
		return Result{}, ErrNoConverge
	}
	return Result{
		Root:       append([]float64(nil), result.X...),
		Residual:   fx,
		Norm:       norm,
		Iterations: result.MajorIterations,
		Fallback:   true,
	}, nil
}

// fdJacobian estima el jacobiano por diferencias finitas hacia delante.
func fdJacobian(f Residual, x, fx []float64, step float64) *mat.Dense {
	n := len(x)
	jac := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		h := step * math.Max(1, math.Abs(x[j]))
		xp := append([]float64(nil), x...)
		xp[j] += h
		fp := f(xp)
		for i := 0; i < n; i++ {
			jac.Set(i, j, (fp[i]-fx[i])/h)
		}
	}
	return jac
}

func normInf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
