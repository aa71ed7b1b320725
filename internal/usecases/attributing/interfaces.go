package attributing

import (
	"context"

	"github.com/dgflow/attribution-api/internal/domain"
)

// Reconciler é consumido pelo webhook de vendas e pela sincronização agendada
type Reconciler interface {
	Reconcile(ctx context.Context, event *domain.SaleEvent) (*domain.AttributionResult, error)
	ReconcileBatch(ctx context.Context, events []*domain.SaleEvent) *BatchResult
}

// BatchResult resume o processamento sequencial de um lote de vendas
type BatchResult struct {
	Results    []*domain.AttributionResult `json:"results"`
	Applied    int                         `json:"applied"`
	Skipped    int                         `json:"skipped"`
	Duplicates int                         `json:"duplicates"`
	Failed     int                         `json:"failed"`
	Invalid    int                         `json:"invalid"`
}
