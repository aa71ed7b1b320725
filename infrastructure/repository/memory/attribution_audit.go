package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/pkg/utils"
)

const defaultAuditLimit = 500

// AuditStore guarda as entradas de auditoria em memória, somente inserção
type AuditStore struct {
	mu      sync.RWMutex
	entries []*domain.AttributionAuditEntry
	// failWith força erro em Record; usado para simular indisponibilidade
	failWith error
}

var _ repository.AttributionAuditRepository = (*AuditStore)(nil)

func NewAuditStore() *AuditStore {
	return &AuditStore{
		entries: make([]*domain.AttributionAuditEntry, 0),
	}
}

// FailWith faz com que as próximas gravações retornem err (nil restaura)
func (s *AuditStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *AuditStore) Record(ctx context.Context, entry *domain.AttributionAuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("entrada de auditoria ausente")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}

	cp := *entry
	if cp.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar id da auditoria: %w", err)
		}
		cp.ID = id
	}
	if cp.Event == "" {
		cp.Event = domain.AuditEventSaleAttribution
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}

	s.entries = append(s.entries, &cp)

	return nil
}

func (s *AuditStore) ListByTransactionID(ctx context.Context, transactionID string) ([]*domain.AttributionAuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*domain.AttributionAuditEntry, 0)
	for _, entry := range s.entries {
		if entry.TransactionID == transactionID {
			cp := *entry
			entries = append(entries, &cp)
		}
	}

	return entries, nil
}

func (s *AuditStore) ListByClient(ctx context.Context, clientID string, filters *domain.AuditFilters) ([]*domain.AttributionAuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := uint64(defaultAuditLimit)
	if filters != nil && filters.Limit > 0 && filters.Limit < limit {
		limit = filters.Limit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*domain.AttributionAuditEntry, 0)
	for _, entry := range s.entries {
		if entry.ClientID != clientID {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && entry.CreatedAt.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !entry.CreatedAt.Before(filters.EndDate.AddDate(0, 0, 1)) {
				continue
			}
		}
		cp := *entry
		entries = append(entries, &cp)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if uint64(len(entries)) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}
