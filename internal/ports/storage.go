package ports

import (
	"context"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

// Storage persiste los resultados de un run de simulación.
type Storage interface {
	// SavePanel guarda el panel de un run y devuelve el id del run.
	SavePanel(ctx context.Context, kind string, panel *domain.Panel) (runID string, err error)
	// SaveSummary guarda el resumen Monte Carlo asociado al run.
	SaveSummary(ctx context.Context, runID string, summary *domain.Summary) error
	Close() error
}
