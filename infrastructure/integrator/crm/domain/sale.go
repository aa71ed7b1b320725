package crmdomain

import (
	"strings"
	"time"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Moeda usada quando o CRM não informa
const DefaultCurrency = "BRL"

// Sale é a venda como armazenada no CRM (tabela sales exposta via REST)
type Sale struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Value       decimal.Decimal `json:"value"`
	Currency    *string         `json:"currency"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UTMSource   *string         `json:"utm_source"`
	UTMMedium   *string         `json:"utm_medium"`
	UTMCampaign *string         `json:"utm_campaign"`
	UTMContent  *string         `json:"utm_content"`
	UTMTerm     *string         `json:"utm_term"`
}

// Client é o cadastro de cliente no CRM
type Client struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type GetSalesParams struct {
	ClientID  string
	StartDate time.Time
	EndDate   time.Time
}

// IsClosed indica se a venda foi concluída; apenas vendas concluídas geram conversão
func (s *Sale) IsClosed() bool {
	switch strings.ToLower(s.Status) {
	case "", "won", "closed", "paid":
		return true
	default:
		return false
	}
}

// ToSaleEvent converte a venda do CRM no evento consumido pela reconciliação
func (s *Sale) ToSaleEvent() *domain.SaleEvent {
	currency := DefaultCurrency
	if s.Currency != nil && *s.Currency != "" {
		currency = strings.ToUpper(*s.Currency)
	}

	return &domain.SaleEvent{
		TransactionID: s.ID,
		ClientID:      s.ClientID,
		Amount:        s.Value,
		Currency:      currency,
		OccurredAt:    s.CreatedAt,
		UTMSource:     s.UTMSource,
		UTMMedium:     s.UTMMedium,
		UTMCampaign:   s.UTMCampaign,
		UTMContent:    s.UTMContent,
		UTMTerm:       s.UTMTerm,
	}
}

// ToDomain converte o cadastro do CRM em domain.Client
func (c *Client) ToDomain() *domain.Client {
	status := domain.ClientStatusInactive
	if c.Active {
		status = domain.ClientStatusActive
	}

	return &domain.Client{
		ID:          c.ID,
		Name:        c.Name,
		CRMTenantID: &c.ID,
		Status:      status,
	}
}
