package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/mcmarkets/config"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/notify"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/storage"
	"github.com/alejandrodnm/mcmarkets/internal/montecarlo"
)

// runMonteCarlo ejecuta el experimento completo: numSamples paneles,
// estimación OLS/IV por panel y resumen agregado.
func runMonteCarlo(ctx context.Context, cfg *config.Config, driver *montecarlo.Driver, store *storage.SQLiteStorage, notifier *notify.Console) {
	sim := cfg.Simulation
	slog.Info("=== MONTE CARLO: OLS vs IV on simulated demand panels ===",
		"markets", sim.Markets, "samples", sim.Samples)

	summary, err := driver.SimulateMonteCarlo(sim.Markets, sim.Samples, sim.Seed)
	if err != nil {
		slog.Error("monte carlo failed", "err", err)
		os.Exit(1)
	}

	if store != nil {
		if err := store.SaveSummary(ctx, "", summary); err != nil {
			slog.Warn("failed to persist summary", "err", err)
		}
	}

	if err := notifier.NotifySummary(ctx, summary); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	slog.Info("monte carlo complete", "failed_fits", summary.FailedFits, "dropped_rows", summary.DropTotal)
}

// runPanel simula un único panel sin estimación, lo persiste y lo muestra.
func runPanel(ctx context.Context, cfg *config.Config, driver *montecarlo.Driver, store *storage.SQLiteStorage, notifier *notify.Console) {
	sim := cfg.Simulation
	slog.Info("=== PANEL: single simulated market panel ===", "markets", sim.Markets, "seed", sim.Seed)

	panel := driver.SimulatePanel(sim.Markets, sim.Seed)

	if store != nil {
		runID, err := store.SavePanel(ctx, "panel", panel)
		if err != nil {
			slog.Warn("failed to persist panel", "err", err)
		} else {
			slog.Info("panel persisted", "run_id", runID)
		}
	}

	if err := notifier.NotifyPanel(ctx, panel); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}
