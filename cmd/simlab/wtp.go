package main

import (
	"log/slog"
	"os"

	"github.com/alejandrodnm/mcmarkets/config"
	"github.com/alejandrodnm/mcmarkets/internal/adapters/notify"
)

// runWTP calcula la curva de disposición a pagar del contrato de seguro
// configurado y la imprime.
func runWTP(cfg *config.Config, notifier *notify.Console) {
	contract := cfg.Contract()
	slog.Info("=== WTP: insurance willingness to pay (CARA) ===",
		"cara", contract.CARA, "loss", string(contract.Loss),
		"mu", contract.Mu, "sigma", contract.Sigma)

	phis, wtps, err := contract.Curve(cfg.Insurance.Steps)
	if err != nil {
		slog.Error("wtp failed", "err", err)
		os.Exit(1)
	}
	notifier.PrintWTP(contract.ExpectedLoss(), phis, wtps)
}
