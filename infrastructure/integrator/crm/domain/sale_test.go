package crmdomain

import (
	"testing"
	"time"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSale_ToSaleEvent(t *testing.T) {
	source := "facebook"
	content := "campaign_x"
	usd := "usd"
	createdAt := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)

	sale := &Sale{
		ID:         "sale-1",
		ClientID:   "client-1",
		Value:      decimal.RequireFromString("199.90"),
		Currency:   &usd,
		CreatedAt:  createdAt,
		UTMSource:  &source,
		UTMContent: &content,
	}

	event := sale.ToSaleEvent()

	assert.Equal(t, "sale-1", event.TransactionID)
	assert.Equal(t, "USD", event.Currency)
	assert.True(t, event.Amount.Equal(decimal.RequireFromString("199.90")))
	assert.Equal(t, createdAt, event.OccurredAt)
	assert.Equal(t, &source, event.UTMSource)
	assert.NoError(t, event.Validate())

	sale.Currency = nil
	assert.Equal(t, DefaultCurrency, sale.ToSaleEvent().Currency)
}

func TestSale_IsClosed(t *testing.T) {
	for status, want := range map[string]bool{"": true, "WON": true, "paid": true, "lost": false, "open": false} {
		sale := &Sale{Status: status}
		assert.Equal(t, want, sale.IsClosed(), status)
	}
}

func TestClient_ToDomain(t *testing.T) {
	c := &Client{ID: "c1", Name: "Loja", Active: false}

	client := c.ToDomain()

	assert.Equal(t, domain.ClientStatusInactive, client.Status)
	assert.Equal(t, "c1", *client.CRMTenantID)
}
