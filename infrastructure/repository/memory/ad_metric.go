package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/shopspring/decimal"
)

type metricKey struct {
	clientID      string
	platform      domain.Platform
	adReferenceID string
	date          string
}

func newMetricKey(key domain.AdMetricKey) metricKey {
	return metricKey{
		clientID:      key.ClientID,
		platform:      key.Platform,
		adReferenceID: key.AdReferenceID,
		date:          key.Date.UTC().Format(time.DateOnly),
	}
}

// AdMetricStore mantém o ledger em memória. Todas as operações de escrita
// acontecem sob o mesmo lock, o que torna leitura e soma indivisíveis.
type AdMetricStore struct {
	mu        sync.RWMutex
	nextID    int64
	records   map[metricKey]*domain.AdMetricRecord
	byID      map[int64]*domain.AdMetricRecord
	processed map[string]int64
	now       func() time.Time
}

var _ repository.AdMetricRepository = (*AdMetricStore)(nil)

func NewAdMetricStore() *AdMetricStore {
	return &AdMetricStore{
		records:   make(map[metricKey]*domain.AdMetricRecord),
		byID:      make(map[int64]*domain.AdMetricRecord),
		processed: make(map[string]int64),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdMetricStore) FindRecord(ctx context.Context, key domain.AdMetricKey) (*domain.AdMetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLedgerError("find_record", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[newMetricKey(key)]
	if !ok {
		return nil, nil
	}

	return copyRecord(record), nil
}

func (s *AdMetricStore) ApplyIncrement(ctx context.Context, recordID int64, conversions int64, revenue decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return domain.NewLedgerError("apply_increment", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[recordID]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrRecordNotFound, recordID)
	}

	record.Conversions += conversions
	record.Revenue = record.Revenue.Add(revenue)
	record.UpdatedAt = s.now()

	return nil
}

func (s *AdMetricStore) CreateRecord(ctx context.Context, key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) (*domain.AdMetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLedgerError("create_record", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return copyRecord(s.upsertSale(key, conversions, revenue)), nil
}

func (s *AdMetricStore) ApplySale(ctx context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLedgerError("apply_sale", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.processed[sale.TransactionID]; seen {
		return nil, domain.ErrDuplicateEvent
	}

	if sale.Key == nil {
		s.processed[sale.TransactionID] = 0
		return nil, nil
	}

	record := s.upsertSale(*sale.Key, sale.Conversions, sale.Revenue)
	s.processed[sale.TransactionID] = record.ID

	return copyRecord(record), nil
}

func (s *AdMetricStore) ListByClient(ctx context.Context, clientID string, filters *domain.MetricFilters) ([]*domain.AdMetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLedgerError("list_by_client", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.AdMetricRecord, 0)
	for _, record := range s.records {
		if record.ClientID != clientID || !matchesFilters(record, filters) {
			continue
		}
		records = append(records, copyRecord(record))
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if records[i].Platform != records[j].Platform {
			return records[i].Platform < records[j].Platform
		}
		return records[i].AdReferenceID < records[j].AdReferenceID
	})

	return records, nil
}

func (s *AdMetricStore) UpsertDelivery(ctx context.Context, key domain.AdMetricKey, impressions, clicks int64, spend decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return domain.NewLedgerError("upsert_delivery", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreate(key)
	record.Impressions = impressions
	record.Clicks = clicks
	record.Spend = spend
	record.UpdatedAt = s.now()

	return nil
}

// IsProcessed informa se o transaction_id já foi registrado
func (s *AdMetricStore) IsProcessed(transactionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.processed[transactionID]
	return ok
}

func (s *AdMetricStore) upsertSale(key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) *domain.AdMetricRecord {
	record := s.getOrCreate(key)
	record.Conversions += conversions
	record.Revenue = record.Revenue.Add(revenue)
	record.UpdatedAt = s.now()
	return record
}

func (s *AdMetricStore) getOrCreate(key domain.AdMetricKey) *domain.AdMetricRecord {
	k := newMetricKey(key)
	if record, ok := s.records[k]; ok {
		return record
	}

	s.nextID++
	now := s.now()
	record := &domain.AdMetricRecord{
		ID:            s.nextID,
		ClientID:      key.ClientID,
		Platform:      key.Platform,
		AdReferenceID: key.AdReferenceID,
		Date:          domain.Day(key.Date),
		Spend:         decimal.Zero,
		Revenue:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.records[k] = record
	s.byID[record.ID] = record

	return record
}

func matchesFilters(record *domain.AdMetricRecord, filters *domain.MetricFilters) bool {
	if filters == nil {
		return true
	}
	if filters.StartDate != nil && record.Date.Before(domain.Day(*filters.StartDate)) {
		return false
	}
	if filters.EndDate != nil && record.Date.After(domain.Day(*filters.EndDate)) {
		return false
	}
	if filters.Platform != nil && record.Platform != *filters.Platform {
		return false
	}
	return true
}

func copyRecord(record *domain.AdMetricRecord) *domain.AdMetricRecord {
	if record == nil {
		return nil
	}
	cp := *record
	return &cp
}
