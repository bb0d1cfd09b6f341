package main

import (
	"log/slog"

	"github.com/alejandrodnm/mcmarkets/config"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/notify"
	"github.com/alejandrodnm/mcmarkets/internal/equilibrium"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

// runDuopoly resuelve el juego de calidad con la calibración del config
// e imprime el equilibrio con su descomposición de bienestar.
func runDuopoly(cfg *config.Config, notifier *notify.Console) {
	m := cfg.QualityModel()
	slog.Info("=== DUOPOLY: quality competition equilibrium ===",
		"t", m.T, "mu", m.Mu, "p", m.P, "gamma1", m.Gamma1, "gamma2", m.Gamma2)

	rec := equilibrium.SolveQuality(m, nil, solver.Options{
		Tol:     cfg.Simulation.SolverTol,
		MaxIter: cfg.Simulation.MaxIter,
	})
	notifier.PrintDuopoly(m, rec)
}
