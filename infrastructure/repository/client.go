package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dgflow/attribution-api/infrastructure/database/postgres"
	"github.com/dgflow/attribution-api/internal/domain"
)

const (
	clientsTable   = "clients c"
	clientsColumns = "c.id, c.name, c.nickname, c.crm_tenant_id, c.meta_ad_account_id, c.status, c.created_at, c.updated_at"
)

type ClientRepository interface {
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, availableStatus []domain.ClientStatus) ([]*domain.Client, error)
	SaveOrUpdate(ctx context.Context, clients []*domain.Client) error
	// Register cria um cliente ativo só com o ID quando ele ainda não existe.
	// Retorna true se o cliente foi criado agora.
	Register(ctx context.Context, clientID string) (bool, error)
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientsColumns).
		From(clientsTable).
		Where(squirrel.Eq{"c.id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	client, err := scanClient(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar cliente: %w", dbError(err))
	}

	return client, nil
}

func (r *clientRepository) ListClients(ctx context.Context, availableStatus []domain.ClientStatus) ([]*domain.Client, error) {
	builder := squirrel.
		Select(clientsColumns).
		From(clientsTable).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		builder = builder.Where(squirrel.Eq{"c.status": availableStatus})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", dbError(err))
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar o cliente: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return clients, nil
}

// SaveOrUpdate sincroniza o cadastro de clientes vindo do CRM, preservando apelido e conta Meta locais
func (r *clientRepository) SaveOrUpdate(ctx context.Context, clients []*domain.Client) error {
	if len(clients) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("clients").
		Columns("id", "name", "nickname", "crm_tenant_id", "meta_ad_account_id", "status").
		PlaceholderFormat(squirrel.Dollar)

	for _, client := range clients {
		status := client.Status
		if status == "" {
			status = domain.ClientStatusActive
		}
		query = query.Values(client.ID, client.Name, client.Nickname, client.CRMTenantID, client.MetaAdAccountID, status)
	}

	query = query.Suffix(`
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			crm_tenant_id = EXCLUDED.crm_tenant_id,
			status = EXCLUDED.status,
			nickname = COALESCE(clients.nickname, EXCLUDED.nickname),
			meta_ad_account_id = COALESCE(EXCLUDED.meta_ad_account_id, clients.meta_ad_account_id),
			updated_at = NOW()
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("erro ao salvar clientes: %w", dbError(err))
	}

	return nil
}

// Register usa o próprio ID como nome provisório; a sincronização com o CRM
// sobrescreve o nome depois
func (r *clientRepository) Register(ctx context.Context, clientID string) (bool, error) {
	query, args, err := buildRegisterClientQuery(clientID)
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao registrar cliente: %w", dbError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected == 1, nil
}

func buildRegisterClientQuery(clientID string) (string, []interface{}, error) {
	return squirrel.
		Insert("clients").
		Columns("id", "name", "status").
		Values(clientID, clientID, domain.ClientStatusActive).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}

	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Nickname,
		&client.CRMTenantID,
		&client.MetaAdAccountID,
		&client.Status,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return client, nil
}
