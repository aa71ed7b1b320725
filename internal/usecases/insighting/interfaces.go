package insighting

import (
	"context"

	"github.com/dgflow/attribution-api/internal/domain"
)

// Insighter expõe a leitura do ledger e da trilha de auditoria
type Insighter interface {
	// GetAdMetrics retorna os registros do ledger do cliente e o resumo do período
	GetAdMetrics(ctx context.Context, clientID string, filters *domain.MetricFilters) (*domain.AdMetricsResponse, error)

	// GetSaleAttribution retorna a trilha de auditoria de uma venda
	GetSaleAttribution(ctx context.Context, transactionID string) ([]*domain.AttributionAuditEntry, error)

	// ListClientAttributions retorna as decisões de atribuição mais recentes do cliente
	ListClientAttributions(ctx context.Context, clientID string, filters *domain.AuditFilters) ([]*domain.AttributionAuditEntry, error)
}
