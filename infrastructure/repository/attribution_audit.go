package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dgflow/attribution-api/infrastructure/database/postgres"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/dgflow/attribution-api/pkg/utils"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	attributionAuditTable = "attribution_audit"
	auditColumns          = "id, client_id, transaction_id, event, metadata, created_at"
	defaultAuditLimit     = 500
)

// AttributionAuditRepository é somente inserção: não existem métodos de alteração ou remoção
type AttributionAuditRepository interface {
	Record(ctx context.Context, entry *domain.AttributionAuditEntry) error
	ListByTransactionID(ctx context.Context, transactionID string) ([]*domain.AttributionAuditEntry, error)
	ListByClient(ctx context.Context, clientID string, filters *domain.AuditFilters) ([]*domain.AttributionAuditEntry, error)
}

type attributionAuditRepository struct {
	conn *postgres.Connection
}

func NewAttributionAuditRepository(conn *postgres.Connection) AttributionAuditRepository {
	return &attributionAuditRepository{
		conn: conn,
	}
}

func (r *attributionAuditRepository) Record(ctx context.Context, entry *domain.AttributionAuditEntry) error {
	if err := prepareAuditEntry(entry); err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("erro ao serializar metadata para JSON: %w", err)
	}

	query, args, err := squirrel.
		Insert(attributionAuditTable).
		Columns("id", "client_id", "transaction_id", "event", "metadata", "created_at").
		Values(entry.ID, entry.ClientID, entry.TransactionID, entry.Event, metadataJSON, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao gravar auditoria: %w", dbError(err))
	}

	return nil
}

func (r *attributionAuditRepository) ListByTransactionID(ctx context.Context, transactionID string) ([]*domain.AttributionAuditEntry, error) {
	query, args, err := squirrel.
		Select(auditColumns).
		From(attributionAuditTable).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

func (r *attributionAuditRepository) ListByClient(ctx context.Context, clientID string, filters *domain.AuditFilters) ([]*domain.AttributionAuditEntry, error) {
	limit := uint64(defaultAuditLimit)

	builder := squirrel.
		Select(auditColumns).
		From(attributionAuditTable).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.StartDate != nil {
			builder = builder.Where(squirrel.GtOrEq{"created_at": *filters.StartDate})
		}
		if filters.EndDate != nil {
			// fim do dia inclusivo
			builder = builder.Where(squirrel.Lt{"created_at": filters.EndDate.AddDate(0, 0, 1)})
		}
		if filters.Limit > 0 && filters.Limit < limit {
			limit = filters.Limit
		}
	}

	query, args, err := builder.Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.query(ctx, query, args...)
}

func (r *attributionAuditRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.AttributionAuditEntry, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", dbError(err))
	}
	defer rows.Close()

	entries := make([]*domain.AttributionAuditEntry, 0)
	for rows.Next() {
		entry := &domain.AttributionAuditEntry{}
		var metadataJSON []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.ClientID,
			&entry.TransactionID,
			&entry.Event,
			&metadataJSON,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear auditoria: %w", err)
		}

		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de metadata: %w", err)
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

// prepareAuditEntry completa id, evento e data de criação antes da gravação
func prepareAuditEntry(entry *domain.AttributionAuditEntry) error {
	if entry == nil {
		return fmt.Errorf("entrada de auditoria ausente")
	}

	if entry.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("erro ao gerar id da auditoria: %w", err)
		}
		entry.ID = id
	}

	if entry.Event == "" {
		entry.Event = domain.AuditEventSaleAttribution
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	return nil
}
