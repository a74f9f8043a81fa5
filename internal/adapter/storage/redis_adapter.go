package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/order-desk/internal/port"
)

const (
	stockKeyPrefix           = "stock:"
	defaultIdempotencyKeyTTL = 24 * time.Hour
)

var _ port.StockCache = (*RedisAdapter)(nil)

var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local units = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= units then
	redis.call('DECRBY', key, units)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client         *redis.Client
	namespace      string
	idempotencyTTL time.Duration
}

type RedisOption func(*RedisAdapter)

// WithNamespace prefixes every key, so several desks can share one Redis.
func WithNamespace(ns string) RedisOption {
	return func(r *RedisAdapter) { r.namespace = ns }
}

func WithIdempotencyTTL(ttl time.Duration) RedisOption {
	return func(r *RedisAdapter) {
		if ttl > 0 {
			r.idempotencyTTL = ttl
		}
	}
}

func NewRedisAdapter(client *redis.Client, opts ...RedisOption) *RedisAdapter {
	r := &RedisAdapter{client: client, idempotencyTTL: defaultIdempotencyKeyTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisAdapter) stockKey(articleID string) string {
	return r.namespace + stockKeyPrefix + articleID
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, articleID string, units int) (bool, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{r.stockKey(articleID)}, units).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisAdapter) IncrementStock(ctx context.Context, articleID string, units int) error {
	return r.client.IncrBy(ctx, r.stockKey(articleID), int64(units)).Err()
}

func (r *RedisAdapter) SetStock(ctx context.Context, articleID string, units int) error {
	return r.client.Set(ctx, r.stockKey(articleID), units, 0).Err()
}

// Stock reads the mirrored level; ok is false when the article is not mirrored.
func (r *RedisAdapter) Stock(ctx context.Context, articleID string) (units int, ok bool, err error) {
	units, err = r.client.Get(ctx, r.stockKey(articleID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return units, true, nil
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.namespace+key, 1, r.idempotencyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
