package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dgflow/attribution-api/infrastructure/database/postgres"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	adMetricsTable      = "ad_metrics"
	processedSalesTable = "processed_sales"

	adMetricColumns = "id, client_id, platform, ad_reference_id, metric_date, impressions, clicks, spend, conversions, revenue, created_at, updated_at"

	adMetricConflictTarget = "ON CONFLICT (client_id, platform, ad_reference_id, metric_date)"
)

// AdMetricRepository é o ledger de métricas por (cliente, plataforma, anúncio, dia).
// O motor de reconciliação usa apenas ApplySale, que registra o transaction_id e
// soma a venda numa única transação; FindRecord, ApplyIncrement e CreateRecord
// são as operações avulsas e não protegem contra vendas repetidas.
type AdMetricRepository interface {
	FindRecord(ctx context.Context, key domain.AdMetricKey) (*domain.AdMetricRecord, error)
	ApplyIncrement(ctx context.Context, recordID int64, conversions int64, revenue decimal.Decimal) error
	CreateRecord(ctx context.Context, key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) (*domain.AdMetricRecord, error)
	ApplySale(ctx context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error)
	ListByClient(ctx context.Context, clientID string, filters *domain.MetricFilters) ([]*domain.AdMetricRecord, error)
	UpsertDelivery(ctx context.Context, key domain.AdMetricKey, impressions, clicks int64, spend decimal.Decimal) error
}

type adMetricRepository struct {
	conn *postgres.Connection
}

func NewAdMetricRepository(conn *postgres.Connection) AdMetricRepository {
	return &adMetricRepository{
		conn: conn,
	}
}

func (r *adMetricRepository) FindRecord(ctx context.Context, key domain.AdMetricKey) (*domain.AdMetricRecord, error) {
	query, args, err := squirrel.
		Select(adMetricColumns).
		From(adMetricsTable).
		Where(squirrel.Eq{
			"client_id":       key.ClientID,
			"platform":        key.Platform.String(),
			"ad_reference_id": key.AdReferenceID,
			"metric_date":     key.Date.Format(time.DateOnly),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record, err := scanAdMetric(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewLedgerError("find_record", dbError(err))
	}

	return record, nil
}

// ApplyIncrement soma apenas conversões e receita; impressões, cliques e gasto
// pertencem à sincronização das plataformas e não são tocados
func (r *adMetricRepository) ApplyIncrement(ctx context.Context, recordID int64, conversions int64, revenue decimal.Decimal) error {
	query, args, err := squirrel.
		Update(adMetricsTable).
		Set("conversions", squirrel.Expr("conversions + ?", conversions)).
		Set("revenue", squirrel.Expr("revenue + ?", revenue)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": recordID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return ledgerFailure("apply_increment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewLedgerError("apply_increment", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrRecordNotFound, recordID)
	}

	return nil
}

// CreateRecord insere o registro ou, se a chave já existir, soma os contadores no mesmo comando
func (r *adMetricRepository) CreateRecord(ctx context.Context, key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) (*domain.AdMetricRecord, error) {
	record, err := upsertSale(ctx, r.conn, key, conversions, revenue)
	if err != nil {
		return nil, ledgerFailure("create_record", err)
	}
	return record, nil
}

// ApplySale registra o transaction_id e aplica a venda na mesma transação.
// Se o transaction_id já existir, nada é alterado e ErrDuplicateEvent é retornado.
// Qualquer falha depois do registro desfaz também o registro.
func (r *adMetricRepository) ApplySale(ctx context.Context, sale *domain.SaleApplication) (*domain.AdMetricRecord, error) {
	var record *domain.AdMetricRecord

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		claimed, err := claimTransaction(ctx, tx, sale.TransactionID, sale.ClientID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrDuplicateEvent
		}

		if sale.Key == nil {
			return nil
		}

		record, err = upsertSale(ctx, tx, *sale.Key, sale.Conversions, sale.Revenue)
		if err != nil {
			return err
		}

		return linkProcessedSale(ctx, tx, sale.TransactionID, record.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			return nil, err
		}
		return nil, ledgerFailure("apply_sale", err)
	}

	return record, nil
}

func (r *adMetricRepository) ListByClient(ctx context.Context, clientID string, filters *domain.MetricFilters) ([]*domain.AdMetricRecord, error) {
	builder := squirrel.
		Select(adMetricColumns).
		From(adMetricsTable).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("metric_date ASC", "platform ASC", "ad_reference_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters != nil {
		if filters.StartDate != nil {
			builder = builder.Where(squirrel.GtOrEq{"metric_date": filters.StartDate.Format(time.DateOnly)})
		}
		if filters.EndDate != nil {
			builder = builder.Where(squirrel.LtOrEq{"metric_date": filters.EndDate.Format(time.DateOnly)})
		}
		if filters.Platform != nil {
			builder = builder.Where(squirrel.Eq{"platform": filters.Platform.String()})
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewLedgerError("list_by_client", dbError(err))
	}
	defer rows.Close()

	records := make([]*domain.AdMetricRecord, 0)
	for rows.Next() {
		record, err := scanAdMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear ad metrics: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

// UpsertDelivery grava os números de entrega vindos das plataformas sem tocar em conversões e receita
func (r *adMetricRepository) UpsertDelivery(ctx context.Context, key domain.AdMetricKey, impressions, clicks int64, spend decimal.Decimal) error {
	query, args, err := squirrel.
		Insert(adMetricsTable).
		Columns("client_id", "platform", "ad_reference_id", "metric_date", "impressions", "clicks", "spend").
		Values(key.ClientID, key.Platform.String(), key.AdReferenceID, key.Date.Format(time.DateOnly), impressions, clicks, spend).
		Suffix(adMetricConflictTarget + ` DO UPDATE SET
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			spend = EXCLUDED.spend,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return ledgerFailure("upsert_delivery", err)
	}

	return nil
}

func buildUpsertSaleQuery(key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) (string, []interface{}, error) {
	return squirrel.
		Insert(adMetricsTable).
		Columns("client_id", "platform", "ad_reference_id", "metric_date", "conversions", "revenue").
		Values(key.ClientID, key.Platform.String(), key.AdReferenceID, key.Date.Format(time.DateOnly), conversions, revenue).
		Suffix(adMetricConflictTarget + ` DO UPDATE SET
			conversions = ad_metrics.conversions + EXCLUDED.conversions,
			revenue = ad_metrics.revenue + EXCLUDED.revenue,
			updated_at = NOW()
		RETURNING ` + adMetricColumns).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func upsertSale(ctx context.Context, q postgres.Queryer, key domain.AdMetricKey, conversions int64, revenue decimal.Decimal) (*domain.AdMetricRecord, error) {
	query, args, err := buildUpsertSaleQuery(key, conversions, revenue)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return scanAdMetric(q.QueryRowContext(ctx, query, args...))
}

func buildClaimQuery(transactionID, clientID string) (string, []interface{}, error) {
	return squirrel.
		Insert(processedSalesTable).
		Columns("transaction_id", "client_id").
		Values(transactionID, clientID).
		Suffix("ON CONFLICT (transaction_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// claimTransaction retorna false quando o transaction_id já foi registrado
func claimTransaction(ctx context.Context, q postgres.Queryer, transactionID, clientID string) (bool, error) {
	query, args, err := buildClaimQuery(transactionID, clientID)
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected == 1, nil
}

func linkProcessedSale(ctx context.Context, q postgres.Queryer, transactionID string, recordID int64) error {
	query, args, err := squirrel.
		Update(processedSalesTable).
		Set("ad_metric_id", recordID).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = q.ExecContext(ctx, query, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdMetric(row rowScanner) (*domain.AdMetricRecord, error) {
	record := &domain.AdMetricRecord{}
	var platform string

	err := row.Scan(
		&record.ID,
		&record.ClientID,
		&platform,
		&record.AdReferenceID,
		&record.Date,
		&record.Impressions,
		&record.Clicks,
		&record.Spend,
		&record.Conversions,
		&record.Revenue,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Platform = domain.Platform(platform)
	record.Date = domain.Day(record.Date)

	return record, nil
}

// dbError acrescenta o código do Postgres à mensagem quando disponível
func dbError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
	}
	return err
}

// ledgerFailure separa falhas transitórias de valores que o Postgres nunca vai
// aceitar (classe 22, dados; classe 23, restrições)
func ledgerFailure(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23":
			return domain.NewLedgerRejection(op, dbError(err))
		}
	}
	return domain.NewLedgerError(op, dbError(err))
}
