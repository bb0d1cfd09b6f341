package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/mcmarkets/config"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/notify"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/storage"
	"github.com/alejandrodnm/mcmarkets/internal/montecarlo"
	"github.com/alejandrodnm/mcmarkets/internal/solver"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	duopoly := flag.Bool("duopoly", false, "solve the quality-competition duopoly and exit")
	wtp := flag.Bool("wtp", false, "print the insurance willingness-to-pay curve and exit")
	quad := flag.Bool("quad", false, "run the Gauss-Hermite quadrature self-check and exit")
	panelOnly := flag.Bool("panel", false, "simulate one panel (no estimation) and exit")
	markets := flag.Int("markets", 0, "markets per panel (overrides config)")
	samples := flag.Int("samples", 0, "monte carlo samples (overrides config)")
	seed := flag.Uint64("seed", 0, "base seed (overrides config)")
	dryRun := flag.Bool("dry-run", false, "skip SQLite persistence")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *markets > 0 {
		cfg.Simulation.Markets = *markets
	}
	if *samples > 0 {
		cfg.Simulation.Samples = *samples
	}
	if *seed > 0 {
		cfg.Simulation.Seed = *seed
	}
	setupLogger(cfg.Log)

	slog.Info("simlab starting",
		"config", *configPath,
		"markets", cfg.Simulation.Markets,
		"samples", cfg.Simulation.Samples,
		"seed", cfg.Simulation.Seed,
		"dry_run", *dryRun,
	)

	notifier := notify.NewConsole(*table, cfg.Simulation.PreviewRows)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Los modos cerrados no tocan storage: resuelven e imprimen.
	if *duopoly {
		runDuopoly(cfg, notifier)
		return
	}
	if *wtp {
		runWTP(cfg, notifier)
		return
	}
	if *quad {
		runQuad()
		return
	}

	var store *storage.SQLiteStorage
	if !*dryRun {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	driver, err := montecarlo.NewDriver(cfg.ModelParams(), solver.Options{
		Tol:     cfg.Simulation.SolverTol,
		MaxIter: cfg.Simulation.MaxIter,
	})
	if err != nil {
		slog.Error("invalid model parameters", "err", err)
		os.Exit(1)
	}

	if *panelOnly {
		runPanel(ctx, cfg, driver, store, notifier)
		return
	}
	runMonteCarlo(ctx, cfg, driver, store, notifier)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
