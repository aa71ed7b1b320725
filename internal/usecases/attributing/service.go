package attributing

import (
	"context"
	"errors"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/cache"
	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/shopspring/decimal"
)

type Service struct {
	ledger        repository.AdMetricRepository
	audit         repository.AttributionAuditRepository
	clients       repository.ClientRepository
	processed     cache.ProcessedSaleCache
	metrics       *metrics.Metrics
	ledgerTimeout time.Duration
	auditTimeout  time.Duration
	now           func() time.Time
}

// NewService cria o motor de reconciliação. clients, processed e m podem ser nulos.
func NewService(
	ledger repository.AdMetricRepository,
	audit repository.AttributionAuditRepository,
	clients repository.ClientRepository,
	processed cache.ProcessedSaleCache,
	m *metrics.Metrics,
	cfg *config.Config,
) *Service {
	return &Service{
		ledger:        ledger,
		audit:         audit,
		clients:       clients,
		processed:     processed,
		metrics:       m,
		ledgerTimeout: cfg.Attribution.LedgerTimeout,
		auditTimeout:  cfg.Attribution.AuditTimeout,
		now:           time.Now,
	}
}

// Reconcile atribui uma venda ao anúncio de origem e soma conversão e receita
// no registro do dia. A mesma venda (transaction_id) nunca é contada duas vezes.
//
// Falhas no ledger retornam um resultado "failed" junto com um erro que envolve
// domain.ErrLedgerUnavailable. A auditoria é gravada depois do ledger, em
// melhor esforço, e sua falha não desfaz a atualização do ledger.
func (s *Service) Reconcile(ctx context.Context, event *domain.SaleEvent) (*domain.AttributionResult, error) {
	if err := event.Validate(); err != nil {
		return nil, NewAttributionError(err, apiErrors.ErrInvalidSaleEvent, transactionIDOf(event), "")
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"transaction_id": event.TransactionID,
		"client_id":      event.ClientID,
	})

	resolved := ResolvePlatform(event.UTMSource)
	reference := ExtractAdReference(event.UTMContent, event.UTMTerm)
	processedAt := s.now().UTC()

	result := &domain.AttributionResult{
		TransactionID:    event.TransactionID,
		ClientID:         event.ClientID,
		Platform:         domain.PlatformOrganic,
		ResolvedPlatform: resolved,
		ProcessedAt:      processedAt,
	}

	if s.alreadyProcessed(ctx, logger, event.TransactionID) {
		return s.duplicate(logger, result), nil
	}

	sale := &domain.SaleApplication{
		TransactionID: event.TransactionID,
		ClientID:      event.ClientID,
	}

	var metricDate *time.Time
	if resolved.IsPaid() && reference != nil {
		day := domain.Day(processedAt)
		metricDate = &day

		result.Platform = resolved
		result.AdReferenceID = reference

		sale.Key = &domain.AdMetricKey{
			ClientID:      event.ClientID,
			Platform:      resolved,
			AdReferenceID: *reference,
			Date:          day,
		}
		sale.Conversions = 1
		sale.Revenue = event.Amount
	}

	logger = logger.WithField("platform", result.Platform.String())

	record, err := s.applySale(ctx, sale)
	switch {
	case errors.Is(err, domain.ErrDuplicateEvent):
		s.markProcessed(ctx, logger, event.TransactionID)
		return s.duplicate(logger, result), nil

	case errors.Is(err, domain.ErrLedgerRejected):
		result.Status = domain.AttributionStatusFailed
		result.Error = err.Error()
		logger.WithError(err).Warn("Ledger de métricas recusou os valores da venda")

		s.recordAudit(ctx, logger, event, result, metricDate)
		s.metrics.ObserveReconciliation(result.Platform.String(), string(result.Status), decimal.Zero)

		return result, NewAttributionError(err, apiErrors.ErrInvalidSaleEvent, event.TransactionID, "valores recusados pelo ledger, não reenvie")

	case err != nil:
		if !errors.Is(err, domain.ErrLedgerUnavailable) {
			err = domain.NewLedgerError("apply_sale", err)
		}

		result.Status = domain.AttributionStatusFailed
		result.Error = err.Error()
		logger.WithError(err).Error("Falha ao aplicar venda no ledger de métricas")

		s.recordAudit(ctx, logger, event, result, metricDate)
		s.metrics.ObserveReconciliation(result.Platform.String(), string(result.Status), decimal.Zero)

		return result, NewAttributionError(err, apiErrors.ErrLedgerUnavailable, event.TransactionID, "venda não aplicada, reenvie o evento")
	}

	result.Success = true
	result.Record = record
	result.Status = domain.AttributionStatusSkipped
	revenue := decimal.Zero
	if sale.Key != nil {
		result.Status = domain.AttributionStatusApplied
		revenue = sale.Revenue
	}

	s.markProcessed(ctx, logger, event.TransactionID)
	s.registerClient(ctx, logger, event.ClientID)
	s.recordAudit(ctx, logger, event, result, metricDate)
	s.metrics.ObserveReconciliation(result.Platform.String(), string(result.Status), revenue)

	logger.WithField("status", string(result.Status)).Info("Venda reconciliada")

	return result, nil
}

// ReconcileBatch processa as vendas em sequência; erros individuais não interrompem o lote
func (s *Service) ReconcileBatch(ctx context.Context, events []*domain.SaleEvent) *BatchResult {
	batch := &BatchResult{
		Results: make([]*domain.AttributionResult, 0, len(events)),
	}

	for _, event := range events {
		if ctx.Err() != nil {
			break
		}

		result, err := s.Reconcile(ctx, event)
		if result == nil {
			batch.Invalid++
			log.ForContext(ctx).WithError(err).Warn("Venda inválida ignorada no lote")
			continue
		}

		batch.Results = append(batch.Results, result)

		switch result.Status {
		case domain.AttributionStatusApplied:
			batch.Applied++
		case domain.AttributionStatusSkipped:
			batch.Skipped++
		case domain.AttributionStatusDuplicate:
			batch.Duplicates++
		case domain.AttributionStatusFailed:
			batch.Failed++
		}
	}

	return batch
}

func (s *Service) applySale(ctx context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
	ledgerCtx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()

	started := time.Now()
	defer s.metrics.ObserveLedger("apply_sale", started)

	return s.ledger.ApplySale(ledgerCtx, sale)
}

func (s *Service) duplicate(logger log.Logger, result *domain.AttributionResult) *domain.AttributionResult {
	result.Success = true
	result.Status = domain.AttributionStatusDuplicate
	result.Platform = result.ResolvedPlatform
	if !result.Platform.IsPaid() {
		result.Platform = domain.PlatformOrganic
	}

	s.metrics.ObserveReconciliation(result.Platform.String(), string(result.Status), decimal.Zero)
	logger.Info("Venda já processada, ignorando")

	return result
}

// recordAudit grava a decisão de atribuição em melhor esforço
func (s *Service) recordAudit(ctx context.Context, logger log.Logger, event *domain.SaleEvent, result *domain.AttributionResult, metricDate *time.Time) {
	// a auditoria segue mesmo que a requisição de origem tenha sido cancelada
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()

	entry := domain.NewAttributionAuditEntry(event, result, metricDate)
	if err := s.audit.Record(auditCtx, entry); err != nil {
		result.AuditRecorded = false
		s.metrics.ObserveAuditFailure()
		logger.WithError(err).Warn("Falha ao gravar auditoria de atribuição; ledger mantido")
		return
	}

	result.AuditRecorded = true
}

// registerClient garante que o cliente da venda exista no cadastro, para que as
// consultas funcionem antes da sincronização com o CRM. Falha só é registrada no log.
func (s *Service) registerClient(ctx context.Context, logger log.Logger, clientID string) {
	if s.clients == nil {
		return
	}

	registerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()

	created, err := s.clients.Register(registerCtx, clientID)
	if err != nil {
		logger.WithError(err).Warn("Falha ao registrar cliente da venda no cadastro")
		return
	}
	if created {
		logger.Info("Cliente registrado a partir da venda; dados completos virão do CRM")
	}
}

func (s *Service) alreadyProcessed(ctx context.Context, logger log.Logger, transactionID string) bool {
	if s.processed == nil {
		return false
	}

	seen, err := s.processed.Seen(ctx, transactionID)
	if err != nil {
		logger.WithError(err).Warn("Cache de vendas processadas indisponível, consultando o ledger")
		return false
	}

	return seen
}

func (s *Service) markProcessed(ctx context.Context, logger log.Logger, transactionID string) {
	if s.processed == nil {
		return
	}

	if err := s.processed.Mark(ctx, transactionID); err != nil {
		logger.WithError(err).Warn("Erro ao marcar venda no cache")
	}
}

func transactionIDOf(event *domain.SaleEvent) string {
	if event == nil {
		return ""
	}
	return event.TransactionID
}
