package crm

import (
	"context"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/integrator/crm/crmclient"
	crmdomain "github.com/dgflow/attribution-api/infrastructure/integrator/crm/domain"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/pkg/errors"
)

type CRMIntegrator interface {
	GetSalesByClient(ctx context.Context, params crmdomain.GetSalesParams) ([]*domain.SaleEvent, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
}

type CRMService struct {
	Client crmclient.Client
}

func New(client crmclient.Client) CRMIntegrator {
	return &CRMService{
		Client: client,
	}
}

// GetSalesByClient busca as vendas concluídas do cliente entre StartDate e EndDate (dias inclusivos)
func (s *CRMService) GetSalesByClient(ctx context.Context, params crmdomain.GetSalesParams) ([]*domain.SaleEvent, error) {
	start := domain.Day(params.StartDate)
	end := domain.Day(params.EndDate).AddDate(0, 0, 1)

	resp, err := s.Client.GetSales(ctx, crmclient.SalesQueryParams{
		ClientID: params.ClientID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar vendas do cliente %s no CRM (%s a %s)",
			params.ClientID, start.Format(time.DateOnly), params.EndDate.Format(time.DateOnly))
	}

	events := make([]*domain.SaleEvent, 0, len(resp))
	for i := range resp {
		if !resp[i].IsClosed() {
			continue
		}
		events = append(events, resp[i].ToSaleEvent())
	}

	return events, nil
}

func (s *CRMService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	resp, err := s.Client.GetClients(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar clientes no CRM")
	}

	clients := make([]*domain.Client, 0, len(resp))
	for i := range resp {
		clients = append(clients, resp[i].ToDomain())
	}

	return clients, nil
}
