package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/port"
)

const defaultExportTimeout = 5 * time.Second

// Exporter drains accepted orders into the ledger with a fixed pool of workers.
type Exporter struct {
	ledger  port.LedgerRepository
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewExporter(ledger port.LedgerRepository, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{ledger: ledger, logger: logger, timeout: defaultExportTimeout}
}

// Start launches workers that run until queue is closed. Wait blocks until
// they are done.
func (e *Exporter) Start(queue <-chan domain.Fulfillment, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go func(id int) {
			defer e.wg.Done()
			e.workerLoop(id, queue)
		}(i)
	}
	e.logger.Info("export workers started", zap.Int("workers", workers))
}

func (e *Exporter) Wait() {
	e.wg.Wait()
}

func (e *Exporter) workerLoop(id int, queue <-chan domain.Fulfillment) {
	logger := e.logger.With(zap.Int("worker", id))
	for f := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		e.export(ctx, logger, f)
		cancel()
	}
}

func (e *Exporter) export(ctx context.Context, logger *zap.Logger, f domain.Fulfillment) {
	err := e.ledger.ExportOrder(ctx, f)
	switch {
	case errors.Is(err, port.ErrAlreadyExported):
		logger.Warn("order already in ledger", zap.String("order_id", f.OrderID))
		return
	case err != nil:
		logger.Error("failed to export order", zap.String("order_id", f.OrderID), zap.Error(err))
		return
	}

	// Lines of one article report the level after the last of them.
	final := make(map[string]int, len(f.Lines))
	var order []string
	for _, line := range f.Lines {
		if _, ok := final[line.ArticleID]; !ok {
			order = append(order, line.ArticleID)
		}
		final[line.ArticleID] = line.StockAfter
	}
	for _, articleID := range order {
		if err := e.ledger.UpsertStock(ctx, articleID, final[articleID]); err != nil {
			logger.Error("failed to record stock", zap.String("article_id", articleID), zap.Error(err))
		}
	}
	logger.Info("order exported", zap.String("order_id", f.OrderID))
}
