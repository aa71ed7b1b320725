package crmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	crmdomain "github.com/dgflow/attribution-api/infrastructure/integrator/crm/domain"
	"github.com/dgflow/attribution-api/internal/config"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	GetSales(ctx context.Context, params SalesQueryParams) (SalesResponse, error)
	GetClients(ctx context.Context) (ClientsResponse, error)
}

type CRMClient struct {
	httpClient *http.Client
	config     *config.CRM
}

// NewClient cria o cliente da API REST do CRM
func NewClient(cfg *config.Config) Client {
	return &CRMClient{
		httpClient: &http.Client{
			Timeout: cfg.CRM.Timeout,
		},
		config: &cfg.CRM,
	}
}

type ClientsResponse []crmdomain.Client

func (c *CRMClient) GetClients(ctx context.Context) (ClientsResponse, error) {
	var response ClientsResponse

	query := url.Values{}
	query.Set("select", "id,name,active")
	query.Set("order", "name.asc")

	err := c.get(ctx, "/clients", query, &response)
	return response, err
}

// get executa um GET autenticado e decodifica o corpo JSON em out
func (c *CRMClient) get(ctx context.Context, resource string, query url.Values, out any) error {
	// Construir a URL da requisição.
	endpoint, err := url.Parse(c.config.URL)
	if err != nil {
		return fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, resource)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return nil
}
