package insighting

import (
	"context"
	"fmt"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/sirupsen/logrus"
)

// Período padrão quando a consulta não informa datas
const defaultLookbackDays = 30

type Service struct {
	clientRepository   repository.ClientRepository
	adMetricRepository repository.AdMetricRepository
	auditRepository    repository.AttributionAuditRepository
	now                func() time.Time
}

func NewService(
	clientRepository repository.ClientRepository,
	adMetricRepository repository.AdMetricRepository,
	auditRepository repository.AttributionAuditRepository,
) *Service {
	return &Service{
		clientRepository:   clientRepository,
		adMetricRepository: adMetricRepository,
		auditRepository:    auditRepository,
		now:                time.Now,
	}
}

func (s *Service) GetAdMetrics(ctx context.Context, clientID string, filters *domain.MetricFilters) (*domain.AdMetricsResponse, error) {
	if err := s.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}

	filters = s.normalizeFilters(filters)
	if filters.StartDate.After(*filters.EndDate) {
		return nil, ErrInvalidPeriod
	}

	records, err := s.adMetricRepository.ListByClient(ctx, clientID, filters)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"client_id": clientID,
			"error":     err,
		}).Error("Erro ao buscar métricas do ledger")
		return nil, fmt.Errorf("erro ao buscar métricas do cliente %s: %w", clientID, err)
	}

	return &domain.AdMetricsResponse{
		ClientID: clientID,
		Records:  records,
		Summary:  domain.CalculateSummary(records),
		Filters:  filters,
	}, nil
}

func (s *Service) GetSaleAttribution(ctx context.Context, transactionID string) ([]*domain.AttributionAuditEntry, error) {
	entries, err := s.auditRepository.ListByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar auditoria da venda %s: %w", transactionID, err)
	}

	if len(entries) == 0 {
		return nil, ErrAttributionNotFound
	}

	return entries, nil
}

func (s *Service) ListClientAttributions(ctx context.Context, clientID string, filters *domain.AuditFilters) ([]*domain.AttributionAuditEntry, error) {
	if err := s.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}

	if filters != nil && filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, ErrInvalidPeriod
	}

	entries, err := s.auditRepository.ListByClient(ctx, clientID, filters)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar auditoria do cliente %s: %w", clientID, err)
	}

	return entries, nil
}

func (s *Service) ensureClient(ctx context.Context, clientID string) error {
	client, err := s.clientRepository.GetClientByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("erro ao buscar cliente %s: %w", clientID, err)
	}
	if client == nil {
		return ErrClientNotFound
	}
	return nil
}

// normalizeFilters completa o período com os últimos defaultLookbackDays dias
func (s *Service) normalizeFilters(filters *domain.MetricFilters) *domain.MetricFilters {
	normalized := &domain.MetricFilters{}
	if filters != nil {
		*normalized = *filters
	}

	today := domain.Day(s.now())
	if normalized.EndDate == nil {
		normalized.EndDate = &today
	}
	if normalized.StartDate == nil {
		start := normalized.EndDate.AddDate(0, 0, -defaultLookbackDays)
		normalized.StartDate = &start
	}

	return normalized
}
