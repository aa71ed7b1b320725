package attributing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository/mocks"
	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/internal/metrics"
	"github.com/dgflow/attribution-api/pkg/apiErrors"
	"github.com/dgflow/attribution-api/pkg/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func init() {
	log.SetupTestLogger()
}

func testConfig() *config.Config {
	return &config.Config{
		Attribution: config.Attribution{
			LedgerTimeout: time.Second,
			AuditTimeout:  time.Second,
		},
	}
}

func newTestService(ledger *mocks.MockAdMetricRepository, audit *mocks.MockAttributionAuditRepository, m *metrics.Metrics) *Service {
	s := NewService(ledger, audit, nil, nil, m, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

func newSaleEvent(transactionID, source string, content, term *string, amount int64) *domain.SaleEvent {
	event := &domain.SaleEvent{
		TransactionID: transactionID,
		ClientID:      "client-1",
		Amount:        decimal.NewFromInt(amount),
		Currency:      "BRL",
		OccurredAt:    fixedNow.Add(-48 * time.Hour),
		UTMContent:    content,
		UTMTerm:       term,
	}
	if source != "" {
		event.UTMSource = &source
	}
	return event
}

func TestReconcile_AppliesSaleToTodayKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	stored := &domain.AdMetricRecord{ID: 7, ClientID: "client-1", Platform: domain.PlatformMeta, AdReferenceID: "campaign_x", Conversions: 1, Revenue: decimal.NewFromInt(100)}

	ledger.EXPECT().
		ApplySale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)

			require.NotNil(t, sale.Key)
			assert.Equal(t, "tx-1", sale.TransactionID)
			assert.Equal(t, domain.PlatformMeta, sale.Key.Platform)
			assert.Equal(t, "campaign_x", sale.Key.AdReferenceID)
			// data de processamento, não a data da venda
			assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), sale.Key.Date)
			assert.Equal(t, int64(1), sale.Conversions)
			assert.True(t, sale.Revenue.Equal(decimal.NewFromInt(100)))
			return stored, nil
		})

	audit.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.AttributionAuditEntry) error {
			assert.Equal(t, domain.AuditEventSaleAttribution, entry.Event)
			assert.Equal(t, domain.PlatformMeta, entry.Metadata.Platform)
			assert.Equal(t, domain.AttributionStatusApplied, entry.Metadata.Outcome)
			require.NotNil(t, entry.Metadata.AdReferenceID)
			assert.Equal(t, "campaign_x", *entry.Metadata.AdReferenceID)
			require.NotNil(t, entry.Metadata.MetricDate)
			return nil
		})

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "facebook_ads", strPtr("campaign_x"), nil, 100))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.AttributionStatusApplied, result.Status)
	assert.Equal(t, stored, result.Record)
	assert.True(t, result.AuditRecorded)
	assert.Equal(t, fixedNow, result.ProcessedAt)
}

func TestReconcile_OrganicSkipsLedgerMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	ledger.EXPECT().
		ApplySale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
			assert.Nil(t, sale.Key)
			assert.Zero(t, sale.Conversions)
			return nil, nil
		})

	audit.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.AttributionAuditEntry) error {
			assert.Equal(t, domain.PlatformOrganic, entry.Metadata.Platform)
			assert.Nil(t, entry.Metadata.AdReferenceID)
			assert.Nil(t, entry.Metadata.MetricDate)
			assert.Equal(t, domain.AttributionStatusSkipped, entry.Metadata.Outcome)
			require.NotNil(t, entry.Metadata.UTM.Source)
			assert.Equal(t, "newsletter", *entry.Metadata.UTM.Source)
			return nil
		})

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-c", "newsletter", nil, nil, 80))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.AttributionStatusSkipped, result.Status)
	assert.Equal(t, domain.PlatformOrganic, result.Platform)
	assert.Nil(t, result.AdReferenceID)
	assert.False(t, result.Attributable())
}

func TestReconcile_PaidSourceWithoutReferenceIsNotAttributed(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
			assert.Nil(t, sale.Key)
			return nil, nil
		})
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.AttributionAuditEntry) error {
			assert.Equal(t, domain.PlatformOrganic, entry.Metadata.Platform)
			assert.Equal(t, domain.PlatformGoogle, entry.Metadata.ResolvedPlatform)
			return nil
		})

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-g", "google", strPtr(" "), nil, 10))

	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusSkipped, result.Status)
	assert.Equal(t, domain.PlatformGoogle, result.ResolvedPlatform)
}

func TestReconcile_LedgerFailureStillAudits(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	m := metrics.NewMetrics("test")
	s := newTestService(ledger, audit, m)

	ledger.EXPECT().
		ApplySale(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset by peer"))

	audit.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.AttributionAuditEntry) error {
			assert.Equal(t, domain.AttributionStatusFailed, entry.Metadata.Outcome)
			assert.Contains(t, entry.Metadata.Error, "connection reset by peer")
			return nil
		})

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-d", "facebook", strPtr("campaign_x"), nil, 100))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLedgerUnavailable))
	assert.True(t, domain.IsRetryable(err))

	var attrErr *AttributionError
	require.True(t, errors.As(err, &attrErr))
	assert.Equal(t, "tx-d", attrErr.TransactionID)

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, domain.AttributionStatusFailed, result.Status)
	assert.Nil(t, result.Record)
	assert.True(t, result.AuditRecorded)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("meta", "failed")))
}

func TestReconcile_LedgerRejectionIsNotRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	m := metrics.NewMetrics("test")
	s := newTestService(ledger, audit, m)

	ledger.EXPECT().
		ApplySale(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewLedgerRejection("apply_sale", errors.New("numeric field overflow")))
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-r", "facebook", strPtr("ad_1"), nil, 100))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLedgerRejected)
	assert.False(t, domain.IsRetryable(err))

	var attrErr *AttributionError
	require.True(t, errors.As(err, &attrErr))
	assert.Equal(t, apiErrors.ErrInvalidSaleEvent, attrErr.Code)

	require.NotNil(t, result)
	assert.Equal(t, domain.AttributionStatusFailed, result.Status)
	assert.True(t, result.AuditRecorded)
}

func TestReconcile_RegistersClientOfSale(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		content *string
	}{
		{name: "venda aplicada", source: "facebook", content: strPtr("ad_1")},
		{name: "venda orgânica", source: "newsletter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledger := mocks.NewMockAdMetricRepository(ctrl)
			audit := mocks.NewMockAttributionAuditRepository(ctrl)
			clients := mocks.NewMockClientRepository(ctrl)
			s := NewService(ledger, audit, clients, nil, nil, testConfig())
			s.now = func() time.Time { return fixedNow }

			ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(&domain.AdMetricRecord{ID: 1}, nil)
			clients.EXPECT().Register(gomock.Any(), "client-1").Return(true, nil)
			audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

			result, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", tt.source, tt.content, nil, 100))

			require.NoError(t, err)
			assert.True(t, result.Success)
		})
	}
}

func TestReconcile_ClientRegistrationFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	clients := mocks.NewMockClientRepository(ctrl)
	s := NewService(ledger, audit, clients, nil, nil, testConfig())
	s.now = func() time.Time { return fixedNow }

	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(&domain.AdMetricRecord{ID: 1}, nil)
	clients.EXPECT().Register(gomock.Any(), "client-1").Return(false, errors.New("clients table locked"))
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "facebook", strPtr("ad_1"), nil, 100))

	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusApplied, result.Status)
}

func TestReconcile_FailedOrDuplicateSaleDoesNotRegisterClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	clients := mocks.NewMockClientRepository(ctrl)
	s := NewService(ledger, audit, clients, nil, nil, testConfig())
	s.now = func() time.Time { return fixedNow }

	clients.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateEvent)
	_, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "facebook", strPtr("ad_1"), nil, 100))
	require.NoError(t, err)

	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	_, err = s.Reconcile(context.Background(), newSaleEvent("tx-2", "facebook", strPtr("ad_1"), nil, 100))
	require.Error(t, err)
}

func TestReconcile_AuditFailureKeepsLedgerUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	m := metrics.NewMetrics("test")
	s := newTestService(ledger, audit, m)

	stored := &domain.AdMetricRecord{ID: 1, Conversions: 1, Revenue: decimal.NewFromInt(100)}

	// apenas uma chamada ao ledger: nenhuma compensação após a falha da auditoria
	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(stored, nil).Times(1)
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("audit store offline"))

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "instagram", strPtr("reel_1"), nil, 100))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.AttributionStatusApplied, result.Status)
	assert.Equal(t, stored, result.Record)
	assert.False(t, result.AuditRecorded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditFailures))
}

func TestReconcile_DuplicateIsNoopWithoutAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateEvent)

	result, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "facebook", strPtr("campaign_x"), nil, 100))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.AttributionStatusDuplicate, result.Status)
	assert.Equal(t, domain.PlatformMeta, result.Platform)
	assert.Nil(t, result.Record)
	assert.False(t, result.AuditRecorded)
}

func TestReconcile_InvalidEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	tests := []struct {
		name  string
		event *domain.SaleEvent
	}{
		{name: "nil", event: nil},
		{name: "sem transaction_id", event: newSaleEvent("", "facebook", nil, nil, 10)},
		{name: "valor negativo", event: newSaleEvent("tx-1", "facebook", nil, nil, -1)},
		{name: "moeda inválida", event: func() *domain.SaleEvent {
			e := newSaleEvent("tx-1", "facebook", nil, nil, 10)
			e.Currency = "real"
			return e
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Reconcile(context.Background(), tt.event)

			assert.Nil(t, result)
			assert.True(t, errors.Is(err, domain.ErrInvalidSaleEvent))
			assert.False(t, domain.IsRetryable(err))
		})
	}
}

func TestReconcileBatch_CountsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockAdMetricRepository(ctrl)
	audit := mocks.NewMockAttributionAuditRepository(ctrl)
	s := newTestService(ledger, audit, nil)

	gomock.InOrder(
		ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(&domain.AdMetricRecord{ID: 1}, nil),
		ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, nil),
		ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateEvent),
		ledger.EXPECT().ApplySale(gomock.Any(), gomock.Any()).Return(nil, domain.NewLedgerError("apply_sale", context.DeadlineExceeded)),
	)
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	batch := s.ReconcileBatch(context.Background(), []*domain.SaleEvent{
		newSaleEvent("tx-1", "facebook", strPtr("a"), nil, 10),
		newSaleEvent("tx-2", "", nil, nil, 10),
		newSaleEvent("tx-3", "google", strPtr("b"), nil, 10),
		newSaleEvent("tx-4", "google", strPtr("b"), nil, 10),
		newSaleEvent("", "google", strPtr("b"), nil, 10),
	})

	assert.Len(t, batch.Results, 4)
	assert.Equal(t, 1, batch.Applied)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, 1, batch.Duplicates)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, 1, batch.Invalid)
}
