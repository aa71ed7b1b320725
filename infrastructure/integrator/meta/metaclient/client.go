package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	metadomain "github.com/dgflow/attribution-api/infrastructure/integrator/meta/domain"
	"github.com/dgflow/attribution-api/internal/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrTokenExpired indica que o token de acesso precisa ser renovado manualmente
var ErrTokenExpired = errors.New("meta: token de acesso expirado")

type Client interface {
	GetAdInsights(ctx context.Context, params AdInsightsParams) ([]metadomain.AdInsight, error)
}

type MetaClient struct {
	httpClient *http.Client
	config     *config.Meta
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		httpClient: &http.Client{
			Timeout: cfg.Meta.Timeout,
		},
		config: &cfg.Meta,
	}
}

// APIError é uma resposta de erro da Graph API
type APIError struct {
	StatusCode int
	Response   *metadomain.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response == nil {
		return fmt.Sprintf("erro na resposta da API. Status: %d", e.StatusCode)
	}
	return fmt.Sprintf("erro na resposta da API. Status: %d, %s", e.StatusCode, e.Response.String())
}

// get executa um GET na URL completa e decodifica o corpo em out
func (c *MetaClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao fazer a requisição: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return handleErrorResponse(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("erro ao decodificar JSON: %w", err)
	}

	return nil
}

func handleErrorResponse(status int, body []byte) error {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Code == 0 {
		return &APIError{StatusCode: status}
	}

	if errorResp.IsTokenExpired() {
		logrus.Warnf("Token expirado detectado pela API Meta. Código: %d, Subcódigo: %d",
			errorResp.Error.Code, errorResp.Error.ErrorSubcode)
		return fmt.Errorf("%w: %s", ErrTokenExpired, errorResp.Error.Message)
	}

	return &APIError{StatusCode: status, Response: &errorResp}
}
