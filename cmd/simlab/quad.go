package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/mcmarkets/internal/quadrature"
)

// runQuad es el self-check de la cuadratura de Gauss-Hermite: imprime el
// error de tres momentos conocidos de N(0,1) para reglas crecientes.
func runQuad() {
	slog.Info("=== QUAD: Gauss-Hermite self-check ===")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Nodes", "|Σw - √π|", "|E[X²] - 1|", "|E[e^X] - e^½|")

	for _, n := range []int{2, 4, 8, 16, 32} {
		r, err := quadrature.NewRule(n)
		if err != nil {
			slog.Error("quadrature rule failed", "nodes", n, "err", err)
			os.Exit(1)
		}

		sum := 0.0
		for _, w := range r.Weights {
			sum += w
		}
		second := r.ExpectNormal(func(x float64) float64 { return x * x }, 0, 1)
		expMoment := r.ExpectNormal(math.Exp, 0, 1)

		table.Append(
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%.2e", math.Abs(sum-math.Sqrt(math.Pi))),
			fmt.Sprintf("%.2e", math.Abs(second-1)),
			fmt.Sprintf("%.2e", math.Abs(expMoment-math.Exp(0.5))),
		)
	}
	table.Render()
}
