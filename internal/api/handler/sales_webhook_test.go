package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/usecases/attributing"
	"github.com/dgflow/attribution-api/internal/usecases/attributing/mocks"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

const saleBody = `{
	"transaction_id": "tx-1",
	"client_id": "client-1",
	"amount": "100.50",
	"currency": "BRL",
	"occurred_at": "2024-03-10T12:00:00Z",
	"utm_source": "facebook_ads",
	"utm_content": "campaign_x"
}`

func postSale(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/sales", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReceiveSale_Applied(t *testing.T) {
	ctrl := gomock.NewController(t)
	reconciler := mocks.NewMockReconciler(ctrl)

	reconciler.EXPECT().
		Reconcile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, event *domain.SaleEvent) (*domain.AttributionResult, error) {
			assert.Equal(t, "tx-1", event.TransactionID)
			assert.True(t, event.Amount.Equal(decimal.RequireFromString("100.50")))
			assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), event.OccurredAt.UTC())
			require.NotNil(t, event.UTMContent)
			assert.Equal(t, "campaign_x", *event.UTMContent)

			return &domain.AttributionResult{
				TransactionID: event.TransactionID,
				Success:       true,
				Status:        domain.AttributionStatusApplied,
				Platform:      domain.PlatformMeta,
			}, nil
		})

	rec := postSale(ReceiveSale(reconciler), saleBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"applied"`)
}

func TestReceiveSale_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	reconciler := mocks.NewMockReconciler(ctrl)

	reconciler.EXPECT().
		Reconcile(gomock.Any(), gomock.Any()).
		Return(&domain.AttributionResult{TransactionID: "tx-1", Success: true, Status: domain.AttributionStatusDuplicate}, nil)

	rec := postSale(ReceiveSale(reconciler), saleBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"duplicate"`)
}

func TestReceiveSale_Errors(t *testing.T) {
	invalid := attributing.NewAttributionError(
		domain.ErrInvalidSaleEvent, apiErrors.ErrInvalidSaleEvent, "tx-1", "",
	)
	ledger := attributing.NewAttributionError(
		domain.NewLedgerError("apply_sale", assert.AnError), apiErrors.ErrLedgerUnavailable, "tx-1", "",
	)
	rejected := attributing.NewAttributionError(
		domain.NewLedgerRejection("apply_sale", assert.AnError), apiErrors.ErrInvalidSaleEvent, "tx-1", "",
	)
	failed := &domain.AttributionResult{TransactionID: "tx-1", Status: domain.AttributionStatusFailed}

	tests := []struct {
		name       string
		body       string
		result     *domain.AttributionResult
		err        error
		callsMock  bool
		wantStatus int
		wantCode   string
	}{
		{name: "json inválido", body: `{"transaction_id":`, wantStatus: http.StatusBadRequest, wantCode: "VAL_003"},
		{name: "evento inválido", body: saleBody, err: invalid, callsMock: true, wantStatus: http.StatusBadRequest, wantCode: "VAL_004"},
		{name: "ledger indisponível", body: saleBody, result: failed, err: ledger, callsMock: true, wantStatus: http.StatusServiceUnavailable, wantCode: "SRV_005"},
		{name: "valores recusados pelo ledger", body: saleBody, result: failed, err: rejected, callsMock: true, wantStatus: http.StatusBadRequest, wantCode: "VAL_004"},
		{name: "erro inesperado", body: saleBody, err: assert.AnError, callsMock: true, wantStatus: http.StatusInternalServerError, wantCode: "SRV_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reconciler := mocks.NewMockReconciler(ctrl)
			if tt.callsMock {
				reconciler.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(tt.result, tt.err)
			}

			rec := postSale(ReceiveSale(reconciler), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.Equal(t, "5", rec.Header().Get("Retry-After"))
				assert.Contains(t, rec.Body.String(), `"status":"failed"`)
			} else {
				assert.Empty(t, rec.Header().Get("Retry-After"))
			}
		})
	}
}
