package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdDelivery são os números de entrega de um anúncio em um dia, informados pela plataforma
type AdDelivery struct {
	Platform      Platform
	AdReferenceID string
	Date          time.Time
	Impressions   int64
	Clicks        int64
	Spend         decimal.Decimal
}

// Key monta a chave do ledger para o cliente informado
func (d *AdDelivery) Key(clientID string) AdMetricKey {
	return AdMetricKey{
		ClientID:      clientID,
		Platform:      d.Platform,
		AdReferenceID: d.AdReferenceID,
		Date:          Day(d.Date),
	}
}
