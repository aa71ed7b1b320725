package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdMetricKey identifica unicamente uma linha do ledger de métricas
type AdMetricKey struct {
	ClientID      string
	Platform      Platform
	AdReferenceID string
	Date          time.Time
}

// AdMetricRecord é o agregado diário por cliente, plataforma e anúncio.
// Impressions, Clicks e Spend vêm da sincronização das plataformas;
// Conversions e Revenue são incrementados pela atribuição de vendas.
type AdMetricRecord struct {
	ID            int64           `json:"id"`
	ClientID      string          `json:"client_id"`
	Platform      Platform        `json:"platform"`
	AdReferenceID string          `json:"ad_reference_id"`
	Date          time.Time       `json:"date"`
	Impressions   int64           `json:"impressions"`
	Clicks        int64           `json:"clicks"`
	Spend         decimal.Decimal `json:"spend"`
	Conversions   int64           `json:"conversions"`
	Revenue       decimal.Decimal `json:"revenue"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Key retorna a chave única do registro
func (r *AdMetricRecord) Key() AdMetricKey {
	return AdMetricKey{
		ClientID:      r.ClientID,
		Platform:      r.Platform,
		AdReferenceID: r.AdReferenceID,
		Date:          r.Date,
	}
}

// SaleApplication descreve a aplicação de uma venda no ledger.
// Key nulo significa que a venda não é atribuível: apenas o transaction_id é registrado.
type SaleApplication struct {
	TransactionID string
	ClientID      string
	Key           *AdMetricKey
	Conversions   int64
	Revenue       decimal.Decimal
}

// MetricFilters restringe as consultas ao ledger
type MetricFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Platform  *Platform
}

// Day trunca t para o dia civil em UTC
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
