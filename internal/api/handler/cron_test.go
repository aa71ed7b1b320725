package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgflow/attribution-api/internal/api/handler/router"
	"github.com/stretchr/testify/assert"
)

type stubSyncer struct {
	accepted  bool
	clientErr error
}

func (s *stubSyncer) TriggerManualSync() bool {
	return s.accepted
}

func (s *stubSyncer) TriggerClientSync(context.Context) error {
	return s.clientErr
}

func (s *stubSyncer) GetStatus() map[string]any {
	return map[string]any{"sync_running": !s.accepted}
}

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		services   CronJobServices
		wantStatus int
		wantBody   string
	}{
		{name: "vendas", path: "/v1/cron/sales/run", services: CronJobServices{Sales: &stubSyncer{accepted: true}}, wantStatus: http.StatusAccepted, wantBody: `"type":"sales"`},
		{name: "vendas em andamento", path: "/v1/cron/sales/run", services: CronJobServices{Sales: &stubSyncer{}}, wantStatus: http.StatusConflict, wantBody: "RES_002"},
		{name: "clientes", path: "/v1/cron/clients/run", services: CronJobServices{Sales: &stubSyncer{}}, wantStatus: http.StatusAccepted, wantBody: `"type":"clients"`},
		{name: "clientes com erro", path: "/v1/cron/clients/run", services: CronJobServices{Sales: &stubSyncer{clientErr: assert.AnError}}, wantStatus: http.StatusBadGateway, wantBody: "SRV_003"},
		{name: "entrega", path: "/v1/cron/deliveries/run", services: CronJobServices{Deliveries: &stubSyncer{accepted: true}}, wantStatus: http.StatusAccepted, wantBody: `"type":"deliveries"`},
		{name: "entrega sem serviço", path: "/v1/cron/deliveries/run", wantStatus: http.StatusInternalServerError, wantBody: "SRV_001"},
		{name: "tipo desconhecido", path: "/v1/cron/meta/run", wantStatus: http.StatusBadRequest, wantBody: "VAL_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := router.New(router.WithRoutes(router.Route{
				Path:    "/v1/cron/:type/run",
				Method:  http.MethodPost,
				Handler: RunCronJob(tt.services),
			}))

			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestGetCronStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	services := CronJobServices{Sales: &stubSyncer{accepted: true}, Deliveries: &stubSyncer{}}
	GetCronStatus(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sales":{"sync_running":false},"deliveries":{"sync_running":true}}`, rec.Body.String())
}
