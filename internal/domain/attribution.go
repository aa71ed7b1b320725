package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditEventSaleAttribution é a tag fixa das entradas de auditoria de atribuição
const AuditEventSaleAttribution = "sale_attribution"

// AttributionStatus descreve o desfecho da reconciliação de uma venda
type AttributionStatus string

const (
	// AttributionStatusApplied venda somada ao registro do anúncio
	AttributionStatusApplied AttributionStatus = "applied"
	// AttributionStatusSkipped venda sem anúncio identificável; nada foi agregado
	AttributionStatusSkipped AttributionStatus = "skipped"
	// AttributionStatusDuplicate transaction_id já processado
	AttributionStatusDuplicate AttributionStatus = "duplicate"
	// AttributionStatusFailed falha no ledger
	AttributionStatusFailed AttributionStatus = "failed"
)

// AttributionResult é o retorno da reconciliação de um SaleEvent
type AttributionResult struct {
	TransactionID    string            `json:"transaction_id"`
	ClientID         string            `json:"client_id"`
	Success          bool              `json:"success"`
	Status           AttributionStatus `json:"status"`
	Platform         Platform          `json:"platform"`
	ResolvedPlatform Platform          `json:"resolved_platform"`
	AdReferenceID    *string           `json:"ad_reference_id"`
	Record           *AdMetricRecord   `json:"record,omitempty"`
	AuditRecorded    bool              `json:"audit_recorded"`
	Error            string            `json:"error,omitempty"`
	ProcessedAt      time.Time         `json:"processed_at"`
}

// Attributable informa se a venda pôde ser associada a um anúncio
func (r *AttributionResult) Attributable() bool {
	return r.Platform.IsPaid() && r.AdReferenceID != nil
}

// AttributionAuditEntry é o registro imutável da decisão de atribuição
type AttributionAuditEntry struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"client_id"`
	TransactionID string        `json:"transaction_id"`
	Event         string        `json:"event"`
	Metadata      AuditMetadata `json:"metadata"`
	CreatedAt     time.Time     `json:"created_at"`
}

// AuditMetadata guarda o porquê da decisão de atribuição
type AuditMetadata struct {
	Platform         Platform          `json:"platform"`
	ResolvedPlatform Platform          `json:"resolved_platform"`
	AdReferenceID    *string           `json:"ad_reference_id"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	Outcome          AttributionStatus `json:"outcome"`
	Error            string            `json:"error,omitempty"`
	OccurredAt       time.Time         `json:"occurred_at"`
	MetricDate       *time.Time        `json:"metric_date,omitempty"`
	UTM              UTMSnapshot       `json:"utm"`
}

// AuditFilters restringe as consultas de auditoria
type AuditFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     uint64
}

// NewAttributionAuditEntry monta a entrada de auditoria de uma venda processada
func NewAttributionAuditEntry(event *SaleEvent, result *AttributionResult, metricDate *time.Time) *AttributionAuditEntry {
	return &AttributionAuditEntry{
		ClientID:      event.ClientID,
		TransactionID: event.TransactionID,
		Event:         AuditEventSaleAttribution,
		Metadata: AuditMetadata{
			Platform:         result.Platform,
			ResolvedPlatform: result.ResolvedPlatform,
			AdReferenceID:    result.AdReferenceID,
			Amount:           event.Amount,
			Currency:         event.Currency,
			Outcome:          result.Status,
			Error:            result.Error,
			OccurredAt:       event.OccurredAt,
			MetricDate:       metricDate,
			UTM:              event.UTM(),
		},
	}
}
