package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository/memory"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/internal/usecases/authenticating"
	"github.com/dgflow/attribution-api/internal/usecases/insighting"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/dgflow/attribution-api/pkg/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const webhookSecret = "segredo-webhook"

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

type testServer struct {
	handler http.Handler
	auth    *authenticating.Service
	ledger  *memory.AdMetricStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:      config.Server{Host: "localhost", Port: "0", AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:        config.Auth{Secret: "segredo-jwt"},
		Webhook:     config.Webhook{Secret: webhookSecret},
		Attribution: config.Attribution{LedgerTimeout: time.Second, AuditTimeout: time.Second},
	}

	ledger := memory.NewAdMetricStore()
	audit := memory.NewAuditStore()
	clients := memory.NewClientStore(
		&domain.Client{ID: "client-1", Name: "Ótica Centro"},
		&domain.Client{ID: "client-2", Name: "Ótica Norte"},
	)
	m := metrics.NewMetrics("test")
	auth := authenticating.NewService(cfg)

	srv, err := New(cfg, Services{
		Reconciler:     attributing.NewService(ledger, audit, clients, nil, m, cfg),
		Insighter:      insighting.NewService(clients, ledger, audit),
		TokenValidator: auth,
		MetricsHandler: m.Handler(),
	})
	require.NoError(t, err)

	return &testServer{handler: srv.Handler(), auth: auth, ledger: ledger}
}

func (s *testServer) token(t *testing.T, role string, clientIDs ...string) string {
	t.Helper()
	token, err := s.auth.IssueToken(&domain.Claims{UserID: "u1", UserRole: role, ClientIDs: clientIDs}, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) postSale(body string, signed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/sales", strings.NewReader(body))
	if signed {
		req.Header.Set(middleware.SignatureHeader, "sha256="+middleware.Sign(webhookSecret, []byte(body)))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func saleJSON(transactionID, clientID, source, content string) string {
	return `{"transaction_id":"` + transactionID + `","client_id":"` + clientID +
		`","amount":"100.00","currency":"BRL","occurred_at":"2024-03-10T12:00:00Z",` +
		`"utm_source":"` + source + `","utm_content":"` + content + `"}`
}

func TestServer_SaleLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.postSale(saleJSON("tx-1", "client-1", "facebook_ads", "campaign_x"), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"applied"`)

	rec = s.postSale(saleJSON("tx-1", "client-1", "facebook_ads", "campaign_x"), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"duplicate"`)

	rec = s.postSale(saleJSON("tx-2", "client-1", "newsletter", "campaign_x"), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"skipped"`)

	rec = s.get("/v1/clients/client-1/ad-metrics", s.token(t, domain.RoleClient, "client-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var metricsResp struct {
		Records []struct {
			Platform      string `json:"platform"`
			AdReferenceID string `json:"ad_reference_id"`
			Conversions   int64  `json:"conversions"`
			Revenue       string `json:"revenue"`
		} `json:"records"`
		Summary struct {
			Conversions int64 `json:"conversions"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metricsResp))
	require.Len(t, metricsResp.Records, 1)
	assert.Equal(t, "meta", metricsResp.Records[0].Platform)
	assert.Equal(t, "campaign_x", metricsResp.Records[0].AdReferenceID)
	assert.Equal(t, int64(1), metricsResp.Records[0].Conversions)
	assert.Equal(t, "100", metricsResp.Records[0].Revenue)
	assert.Equal(t, int64(1), metricsResp.Summary.Conversions)

	rec = s.get("/v1/sales/tx-2/attribution", s.token(t, domain.RoleClient, "client-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"outcome":"skipped"`)
	assert.Contains(t, rec.Body.String(), `"platform":"organic"`)

	rec = s.get("/v1/clients/client-1/attributions", s.token(t, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transaction_id":"tx-1"`)
	assert.Contains(t, rec.Body.String(), `"transaction_id":"tx-2"`)
}

func TestServer_RejectsUnsignedWebhook(t *testing.T) {
	s := newTestServer(t)

	rec := s.postSale(saleJSON("tx-1", "client-1", "facebook_ads", "campaign_x"), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_011")
}

func TestServer_InvalidSale(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		amount string
	}{
		{name: "valor negativo", amount: "-1"},
		{name: "casas decimais além do ledger", amount: "10.12345"},
		{name: "valor acima do limite", amount: "100000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"transaction_id":"tx-1","client_id":"client-1","amount":"` + tt.amount + `","currency":"BRL","occurred_at":"2024-03-10T12:00:00Z","utm_source":"facebook","utm_content":"ad_1"}`
			rec := s.postSale(body, true)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VAL_004")
			assert.Empty(t, rec.Header().Get("Retry-After"))
		})
	}

	assert.False(t, s.ledger.IsProcessed("tx-1"))
}

func TestServer_SaleRegistersUnknownClient(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, domain.RoleAdmin)

	rec := s.postSale(saleJSON("tx-1", "client-9", "facebook_ads", "campaign_x"), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.get("/v1/clients/client-9/ad-metrics", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"ad_reference_id":"campaign_x"`)

	rec = s.get("/v1/clients/client-9/attributions", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"transaction_id":"tx-1"`)

	rec = s.get("/v1/clients/client-8/ad-metrics", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ClientIsolation(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.postSale(saleJSON("tx-1", "client-2", "google_ads", "ad_9"), true).Code)

	token := s.token(t, domain.RoleClient, "client-1")

	rec := s.get("/v1/clients/client-2/ad-metrics", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.get("/v1/sales/tx-1/attribution", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.get("/v1/clients/client-2/ad-metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_QueryValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, domain.RoleAdmin)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "data inválida", path: "/v1/clients/client-1/ad-metrics?start_date=10/03/2024", wantStatus: http.StatusBadRequest},
		{name: "plataforma inválida", path: "/v1/clients/client-1/ad-metrics?platform=tiktok", wantStatus: http.StatusBadRequest},
		{name: "período invertido", path: "/v1/clients/client-1/ad-metrics?start_date=2024-03-10&end_date=2024-03-01", wantStatus: http.StatusBadRequest},
		{name: "cliente inexistente", path: "/v1/clients/client-9/ad-metrics", wantStatus: http.StatusNotFound},
		{name: "venda sem auditoria", path: "/v1/sales/tx-404/attribution", wantStatus: http.StatusNotFound},
		{name: "rota desconhecida", path: "/v1/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.get(tt.path, token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.postSale(saleJSON("tx-1", "client-1", "facebook_ads", "campaign_x"), true).Code)

	rec := s.get("/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.get("/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_reconciliations_total{platform="meta",status="applied"} 1`)
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(&config.Config{}, Services{})
	assert.Error(t, err)
}
