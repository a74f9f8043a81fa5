package port

import (
	"context"
	"errors"

	"github.com/rl1809/order-desk/internal/core/domain"
)

// ErrAlreadyExported is returned by ExportOrder when the order is in the
// ledger already.
var ErrAlreadyExported = errors.New("order already exported")

// LedgerRepository receives accepted orders and stock levels for reporting
// outside the process.
type LedgerRepository interface {
	// ExportOrder persists one accepted order with all its lines
	ExportOrder(ctx context.Context, fulfillment domain.Fulfillment) error

	// UpsertStock records the current stock level of an article
	UpsertStock(ctx context.Context, articleID string, units int) error
}
