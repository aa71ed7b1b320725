package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dgflow/attribution-api/infrastructure/repository"
	"github.com/dgflow/attribution-api/internal/domain"
)

type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

var _ repository.ClientRepository = (*ClientStore)(nil)

func NewClientStore(clients ...*domain.Client) *ClientStore {
	store := &ClientStore{clients: make(map[string]*domain.Client)}
	_ = store.SaveOrUpdate(context.Background(), clients)
	return store
}

func (s *ClientStore) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return nil, nil
	}

	cp := *client
	return &cp, nil
}

func (s *ClientStore) ListClients(ctx context.Context, availableStatus []domain.ClientStatus) ([]*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]*domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		if len(availableStatus) > 0 && !slices.Contains(availableStatus, client.Status) {
			continue
		}
		cp := *client
		clients = append(clients, &cp)
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})

	return clients, nil
}

func (s *ClientStore) SaveOrUpdate(ctx context.Context, clients []*domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, client := range clients {
		if client == nil {
			continue
		}
		cp := *client
		if cp.Status == "" {
			cp.Status = domain.ClientStatusActive
		}
		if existing, ok := s.clients[cp.ID]; ok {
			cp.CreatedAt = existing.CreatedAt
			if existing.Nickname != nil {
				cp.Nickname = existing.Nickname
			}
			if cp.MetaAdAccountID == nil {
				cp.MetaAdAccountID = existing.MetaAdAccountID
			}
		} else if cp.CreatedAt.IsZero() {
			cp.CreatedAt = now
		}
		cp.UpdatedAt = now
		s.clients[cp.ID] = &cp
	}

	return nil
}

func (s *ClientStore) Register(ctx context.Context, clientID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[clientID]; ok {
		return false, nil
	}

	now := time.Now().UTC()
	s.clients[clientID] = &domain.Client{
		ID:        clientID,
		Name:      clientID,
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return true, nil
}
