package attributing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgflow/attribution-api/infrastructure/cache"
	"github.com/dgflow/attribution-api/infrastructure/repository/memory"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryService(t *testing.T) (*Service, *memory.AdMetricStore, *memory.AuditStore) {
	t.Helper()

	ledger := memory.NewAdMetricStore()
	audit := memory.NewAuditStore()
	s := NewService(ledger, audit, nil, nil, nil, testConfig())
	s.now = func() time.Time { return fixedNow }

	return s, ledger, audit
}

func todayKey(ref string) domain.AdMetricKey {
	return domain.AdMetricKey{
		ClientID:      "client-1",
		Platform:      domain.PlatformMeta,
		AdReferenceID: ref,
		Date:          domain.Day(fixedNow),
	}
}

func TestReconcile_ScenariosAAndB(t *testing.T) {
	s, ledger, audit := newMemoryService(t)
	ctx := context.Background()

	first, err := s.Reconcile(ctx, newSaleEvent("tx-a", "facebook_ads", strPtr("campaign_x"), nil, 100))
	require.NoError(t, err)
	require.NotNil(t, first.Record)
	assert.Equal(t, int64(1), first.Record.Conversions)
	assert.True(t, first.Record.Revenue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.PlatformMeta, first.Record.Platform)

	second, err := s.Reconcile(ctx, newSaleEvent("tx-b", "facebook_ads", strPtr("campaign_x"), nil, 50))
	require.NoError(t, err)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	record, err := ledger.FindRecord(ctx, todayKey("campaign_x"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Conversions)
	assert.True(t, record.Revenue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(0), record.Clicks)
	assert.True(t, record.Spend.IsZero())

	entries, err := audit.ListByClient(ctx, "client-1", nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReconcile_ScenarioC_NoLedgerRecord(t *testing.T) {
	s, ledger, audit := newMemoryService(t)
	ctx := context.Background()

	result, err := s.Reconcile(ctx, newSaleEvent("tx-c", "newsletter", nil, nil, 80))
	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusSkipped, result.Status)

	records, err := ledger.ListByClient(ctx, "client-1", nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	entries, err := audit.ListByTransactionID(ctx, "tx-c")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.PlatformOrganic, entries[0].Metadata.Platform)
	assert.Nil(t, entries[0].Metadata.AdReferenceID)
}

func TestReconcile_Idempotent(t *testing.T) {
	s, ledger, audit := newMemoryService(t)
	ctx := context.Background()
	event := newSaleEvent("tx-1", "facebook", strPtr("campaign_x"), nil, 100)

	first, err := s.Reconcile(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusApplied, first.Status)

	second, err := s.Reconcile(ctx, event)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, domain.AttributionStatusDuplicate, second.Status)

	record, err := ledger.FindRecord(ctx, todayKey("campaign_x"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.Conversions)
	assert.True(t, record.Revenue.Equal(decimal.NewFromInt(100)))

	entries, err := audit.ListByTransactionID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReconcile_ConcurrentDistinctEventsSameKey(t *testing.T) {
	s, ledger, _ := newMemoryService(t)
	ctx := context.Background()

	amounts := []string{"100.10", "49.90"}
	var wg sync.WaitGroup
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount string) {
			defer wg.Done()
			event := newSaleEvent(fmt.Sprintf("tx-%d", i), "facebook", strPtr("campaign_x"), nil, 0)
			event.Amount = decimal.RequireFromString(amount)
			_, err := s.Reconcile(ctx, event)
			assert.NoError(t, err)
		}(i, amount)
	}
	wg.Wait()

	record, err := ledger.FindRecord(ctx, todayKey("campaign_x"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Conversions)
	assert.True(t, record.Revenue.Equal(decimal.NewFromInt(150)))
}

func TestReconcile_AuditOutageDoesNotRollbackLedger(t *testing.T) {
	s, ledger, audit := newMemoryService(t)
	ctx := context.Background()
	audit.FailWith(errors.New("audit offline"))

	result, err := s.Reconcile(ctx, newSaleEvent("tx-1", "facebook", strPtr("campaign_x"), nil, 100))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.AuditRecorded)

	record, err := ledger.FindRecord(ctx, todayKey("campaign_x"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.Conversions)
	assert.True(t, ledger.IsProcessed("tx-1"))
}

func TestReconcile_LedgerTimeoutLeavesNoPartialState(t *testing.T) {
	s, ledger, audit := newMemoryService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Reconcile(ctx, newSaleEvent("tx-1", "facebook", strPtr("campaign_x"), nil, 100))

	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, domain.AttributionStatusFailed, result.Status)
	assert.False(t, ledger.IsProcessed("tx-1"))

	record, err := ledger.FindRecord(context.Background(), todayKey("campaign_x"))
	require.NoError(t, err)
	assert.Nil(t, record)

	// a auditoria não depende do contexto cancelado
	assert.True(t, result.AuditRecorded)
	entries, err := audit.ListByTransactionID(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	retry, err := s.Reconcile(context.Background(), newSaleEvent("tx-1", "facebook", strPtr("campaign_x"), nil, 100))
	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusApplied, retry.Status)
}

func TestReconcile_ProcessedCacheShortCircuits(t *testing.T) {
	mr := miniredis.RunT(t)
	processed, err := cache.NewRedisCache("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = processed.Close() })

	ledger := memory.NewAdMetricStore()
	audit := memory.NewAuditStore()
	s := NewService(ledger, audit, nil, processed, nil, testConfig())
	s.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	_, err = s.Reconcile(ctx, newSaleEvent("tx-1", "google", strPtr("kw"), nil, 30))
	require.NoError(t, err)
	assert.True(t, mr.Exists("sale:processed:tx-1"))

	dup, err := s.Reconcile(ctx, newSaleEvent("tx-1", "google", strPtr("kw"), nil, 30))
	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusDuplicate, dup.Status)
	assert.Equal(t, domain.PlatformGoogle, dup.Platform)

	// com o cache fora do ar, o ledger continua garantindo a idempotência
	mr.Close()
	again, err := s.Reconcile(ctx, newSaleEvent("tx-1", "google", strPtr("kw"), nil, 30))
	require.NoError(t, err)
	assert.Equal(t, domain.AttributionStatusDuplicate, again.Status)

	key := todayKey("kw")
	key.Platform = domain.PlatformGoogle
	record, err := ledger.FindRecord(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.Conversions)
}
