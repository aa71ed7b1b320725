package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const processedSalePrefix = "sale:processed:"

// ProcessedSaleCache é o atalho de deduplicação consultado antes do ledger.
// O ledger continua sendo a fonte de verdade da idempotência.
type ProcessedSaleCache interface {
	Seen(ctx context.Context, transactionID string) (bool, error)
	Mark(ctx context.Context, transactionID string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar REDIS_URL: %w", err)
	}

	return &RedisCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("erro ao conectar no redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Seen(ctx context.Context, transactionID string) (bool, error) {
	_, err := c.client.Get(ctx, processedSaleKey(transactionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("erro ao consultar venda processada: %w", err)
	}
	return true, nil
}

func (c *RedisCache) Mark(ctx context.Context, transactionID string) error {
	if err := c.client.Set(ctx, processedSaleKey(transactionID), time.Now().UTC().Format(time.RFC3339), c.ttl).Err(); err != nil {
		return fmt.Errorf("erro ao marcar venda processada: %w", err)
	}
	return nil
}

func processedSaleKey(transactionID string) string {
	return processedSalePrefix + transactionID
}
