package crmclient

import (
	"context"
	"net/url"
	"time"

	crmdomain "github.com/dgflow/attribution-api/infrastructure/integrator/crm/domain"
)

const salesColumns = "id,client_id,value,currency,status,created_at,utm_source,utm_medium,utm_campaign,utm_content,utm_term"

type SalesQueryParams struct {
	ClientID string
	// Intervalo semiaberto [Start, End)
	Start time.Time
	End   time.Time
}

type SalesResponse []crmdomain.Sale

func (c *CRMClient) GetSales(ctx context.Context, params SalesQueryParams) (SalesResponse, error) {
	var response SalesResponse

	query := url.Values{}
	query.Set("select", salesColumns)
	query.Set("client_id", "eq."+params.ClientID)
	query.Add("created_at", "gte."+params.Start.UTC().Format(time.RFC3339))
	query.Add("created_at", "lt."+params.End.UTC().Format(time.RFC3339))
	query.Set("order", "created_at.asc")

	err := c.get(ctx, "/sales", query, &response)
	return response, err
}
