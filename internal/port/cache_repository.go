package port

import "context"

// StockCache mirrors stock levels to a shared cache and guards against
// placing the same order twice across processes.
type StockCache interface {
	// DecrementStock atomically decreases stock in cache, returns false if insufficient
	// or the article is not mirrored yet
	DecrementStock(ctx context.Context, articleID string, units int) (bool, error)

	// IncrementStock adds received units
	IncrementStock(ctx context.Context, articleID string, units int) error

	// SetStock overwrites the mirrored level
	SetStock(ctx context.Context, articleID string, units int) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
