package ports

import (
	"context"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

// Notifier presenta resultados al usuario (consola, en esta implementación).
type Notifier interface {
	NotifyPanel(ctx context.Context, panel *domain.Panel) error
	NotifySummary(ctx context.Context, summary *domain.Summary) error
}
