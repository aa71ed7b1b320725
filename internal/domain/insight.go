package domain

import (
	"github.com/dgflow/attribution-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// MetricsSummary consolida os registros do ledger de um período
type MetricsSummary struct {
	Impressions       int64                         `json:"impressions"`
	Clicks            int64                         `json:"clicks"`
	Spend             decimal.Decimal               `json:"spend"`
	Conversions       int64                         `json:"conversions"`
	Revenue           decimal.Decimal               `json:"revenue"`
	ROAS              float64                       `json:"roas"`
	CostPerConversion float64                       `json:"cost_per_conversion"`
	ConversionRate    float64                       `json:"conversion_rate"`
	ByPlatform        map[Platform]*PlatformSummary `json:"by_platform"`
}

// PlatformSummary é o total de conversões e receita de uma plataforma
type PlatformSummary struct {
	Conversions int64           `json:"conversions"`
	Revenue     decimal.Decimal `json:"revenue"`
	Spend       decimal.Decimal `json:"spend"`
}

// AdMetricsResponse é a resposta da consulta de métricas de um cliente
type AdMetricsResponse struct {
	ClientID string            `json:"client_id"`
	Records  []*AdMetricRecord `json:"records"`
	Summary  *MetricsSummary   `json:"summary"`
	Filters  *MetricFilters    `json:"-"`
}

// CalculateSummary soma os registros e calcula as métricas de resultado
func CalculateSummary(records []*AdMetricRecord) *MetricsSummary {
	summary := &MetricsSummary{
		Spend:      decimal.Zero,
		Revenue:    decimal.Zero,
		ByPlatform: make(map[Platform]*PlatformSummary),
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		summary.Impressions += r.Impressions
		summary.Clicks += r.Clicks
		summary.Spend = summary.Spend.Add(r.Spend)
		summary.Conversions += r.Conversions
		summary.Revenue = summary.Revenue.Add(r.Revenue)

		ps, ok := summary.ByPlatform[r.Platform]
		if !ok {
			ps = &PlatformSummary{Spend: decimal.Zero, Revenue: decimal.Zero}
			summary.ByPlatform[r.Platform] = ps
		}
		ps.Conversions += r.Conversions
		ps.Revenue = ps.Revenue.Add(r.Revenue)
		ps.Spend = ps.Spend.Add(r.Spend)
	}

	// ROAS: receita gerada por unidade investida
	if summary.Spend.IsPositive() {
		summary.ROAS = utils.Ratio(summary.Revenue, summary.Spend)
	}

	if summary.Conversions > 0 {
		summary.CostPerConversion = utils.Ratio(summary.Spend, decimal.NewFromInt(summary.Conversions))
	}

	// Conversão: porcentagem de cliques que geraram vendas
	if summary.Clicks > 0 {
		summary.ConversionRate = utils.Percent(summary.Conversions, summary.Clicks)
	}

	return summary
}
