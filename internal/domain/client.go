package domain

import "time"

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// Client é o tenant (organização atendida pela agência) dono das vendas e métricas
type Client struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Nickname    *string `json:"nickname"`
	CRMTenantID *string `json:"crm_tenant_id"`
	// MetaAdAccountID é configurado localmente; o CRM não conhece a conta de anúncios
	MetaAdAccountID *string      `json:"meta_ad_account_id"`
	Status          ClientStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// DisplayName retorna o apelido do cliente quando existir
func (c *Client) DisplayName() string {
	if c.Nickname != nil && *c.Nickname != "" {
		return *c.Nickname
	}
	return c.Name
}
