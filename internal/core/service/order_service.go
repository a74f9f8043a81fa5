package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/report"
	"github.com/rl1809/order-desk/internal/port"
)

const idempotencyKeyPrefix = "order:"

// Repositories are the keyed stores the service resolves ids against.
type Repositories struct {
	Accepted  port.Repository[domain.Order, string]
	Articles  port.Repository[domain.Article, string]
	Customers port.Repository[domain.Customer, int64]
}

// OrderLine is one requested line before the article has been resolved.
type OrderLine struct {
	ArticleID string
	Units     int
}

type Rejection struct {
	OrderID string
	Err     error
}

type BatchResult struct {
	RunID    string
	Accepted []string
	Rejected []Rejection
}

type Option func(*OrderService)

// WithStockCache mirrors stock levels to cache and guards order ids across processes.
func WithStockCache(cache port.StockCache) Option {
	return func(s *OrderService) { s.cache = cache }
}

func WithPrinter(p *report.Printer) Option {
	return func(s *OrderService) { s.printer = p }
}

// OrderService places orders one at a time against the inventory. Accepted
// orders are queued for export when the queue is enabled.
type OrderService struct {
	mu      sync.Mutex
	manager *InventoryManager
	repos   Repositories
	cache   port.StockCache
	printer *report.Printer
	logger  *zap.Logger

	// queueMu guards exportQueue. Senders hold it for reading so Close
	// cannot close the channel under them; closing wakes blocked senders.
	queueMu     sync.RWMutex
	exportQueue chan domain.Fulfillment
	closing     chan struct{}
	closeOnce   sync.Once
}

// NewOrderService builds the service over inventory. A queueSize of zero or
// less disables the export queue.
func NewOrderService(inventory *domain.Inventory, repos Repositories, queueSize int, logger *zap.Logger, opts ...Option) (*OrderService, error) {
	if repos.Articles == nil || repos.Customers == nil {
		return nil, domain.NewInvalidArgument("order service: article and customer stores are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	manager, err := NewInventoryManager(inventory, repos.Accepted, logger)
	if err != nil {
		return nil, err
	}

	s := &OrderService{
		manager: manager,
		repos:   repos,
		printer: report.NewPrinter(report.NewFormatter(report.DefaultCurrency)),
		logger:  logger,
		closing: make(chan struct{}),
	}
	if queueSize > 0 {
		s.exportQueue = make(chan domain.Fulfillment, queueSize)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *OrderService) Manager() *InventoryManager { return s.manager }

// BuildOrder resolves customer and articles and assembles an order. An empty
// id gets a generated one.
func (s *OrderService) BuildOrder(id string, customerID int64, lines []OrderLine) (*domain.Order, error) {
	customer, ok := s.repos.Customers.FindByID(customerID)
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, domain.ErrNotFound)
	}
	order, err := domain.NewOrder(customer)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	if err := order.SetID(id); err != nil {
		return nil, err
	}
	for _, line := range lines {
		article, ok := s.repos.Articles.FindByID(line.ArticleID)
		if !ok {
			return nil, fmt.Errorf("article %s: %w", line.ArticleID, domain.ErrNotFound)
		}
		if err := order.AddItem(article, line.Units); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Place fills order if the stock allows it. The fill is mirrored to the
// stock cache and queued for export.
func (s *OrderService) Place(ctx context.Context, order *domain.Order) (*domain.Fulfillment, error) {
	if order == nil {
		return nil, domain.NewInvalidArgument("order is nil")
	}
	if order.ID() == "" {
		return nil, domain.NewInvalidArgument("order has no id")
	}

	fulfillment, err := s.place(ctx, order)
	if err != nil {
		return nil, err
	}
	s.enqueue(ctx, fulfillment)
	return fulfillment, nil
}

func (s *OrderService) place(ctx context.Context, order *domain.Order) (*domain.Fulfillment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repos.Accepted.ExistsByID(order.ID()) {
		return nil, fmt.Errorf("order %s: %w", order.ID(), ErrDuplicateOrder)
	}

	fulfillment, err := s.tryFill(ctx, order)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, fulfillment)
	return fulfillment, nil
}

// enqueue runs outside s.mu so a full queue only blocks this caller.
func (s *OrderService) enqueue(ctx context.Context, f *domain.Fulfillment) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.exportQueue == nil {
		return
	}
	select {
	case s.exportQueue <- *f:
	case <-ctx.Done():
		s.logger.Warn("export skipped", zap.String("order_id", f.OrderID), zap.Error(ctx.Err()))
	case <-s.closing:
		s.logger.Warn("export skipped", zap.String("order_id", f.OrderID), zap.String("reason", "service closed"))
	}
}

func (s *OrderService) tryFill(ctx context.Context, order *domain.Order) (*domain.Fulfillment, error) {
	m := s.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.isFillable(order); err != nil {
		return nil, err
	}

	if s.cache != nil {
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKeyPrefix+order.ID())
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("order %s: %w", order.ID(), ErrDuplicateOrder)
		}
	}

	return m.fill(order)
}

func (s *OrderService) mirror(ctx context.Context, f *domain.Fulfillment) {
	if s.cache == nil {
		return
	}
	// One decrement per article, never after its resync.
	var ids []string
	units := make(map[string]int, len(f.Lines))
	final := make(map[string]int, len(f.Lines))
	for _, line := range f.Lines {
		if _, seen := units[line.ArticleID]; !seen {
			ids = append(ids, line.ArticleID)
		}
		units[line.ArticleID] += line.Units
		final[line.ArticleID] = line.StockAfter
	}
	for _, id := range ids {
		ok, err := s.cache.DecrementStock(ctx, id, units[id])
		if err == nil && ok {
			continue
		}
		if err != nil {
			s.logger.Warn("stock mirror decrement failed", zap.String("article_id", id), zap.Error(err))
		}
		if err := s.cache.SetStock(ctx, id, final[id]); err != nil {
			s.logger.Error("stock mirror resync failed", zap.String("article_id", id), zap.Error(err))
		}
	}
}

// PlaceAll places orders in sequence. Rejected orders are logged and skipped.
func (s *OrderService) PlaceAll(ctx context.Context, orders []*domain.Order) BatchResult {
	result := BatchResult{RunID: uuid.NewString()}
	logger := s.logger.With(zap.String("run_id", result.RunID))

	for _, order := range orders {
		if order == nil {
			continue
		}
		if _, err := s.Place(ctx, order); err != nil {
			logger.Info("order rejected", zap.String("order_id", order.ID()), zap.Error(err))
			result.Rejected = append(result.Rejected, Rejection{OrderID: order.ID(), Err: err})
			continue
		}
		result.Accepted = append(result.Accepted, order.ID())
	}

	logger.Info("batch placed",
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.Rejected)))
	return result
}

func (s *OrderService) Restock(ctx context.Context, articleID string, units int) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.manager.Restock(articleID, units)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.IncrementStock(ctx, articleID, units); err != nil {
			s.logger.Warn("stock mirror increment failed", zap.String("article_id", articleID), zap.Error(err))
		}
	}
	return item, nil
}

// SyncStock overwrites the mirrored level of every inventory item.
func (s *OrderService) SyncStock(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.manager.Inventory().Items() {
		if err := s.cache.SetStock(ctx, item.Article().ID(), item.UnitsInStore()); err != nil {
			return fmt.Errorf("sync stock %s: %w", item.Article().ID(), err)
		}
	}
	return nil
}

// AcceptedOrders returns the filled orders, oldest first.
func (s *OrderService) AcceptedOrders() []*domain.Order {
	orders := s.repos.Accepted.FindAll()
	slices.SortFunc(orders, func(a, b *domain.Order) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return orders
}

func (s *OrderService) InventoryReport() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	s.printer.PrintInventory(s.printer.InventoryTable(&b), s.manager.Inventory().Items())
	return b.String()
}

func (s *OrderService) OrdersReport() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	s.printer.PrintOrders(s.printer.OrdersTable(&b), s.AcceptedOrders())
	return b.String()
}

// ExportQueue is nil when the service was built without a queue.
func (s *OrderService) ExportQueue() <-chan domain.Fulfillment {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	return s.exportQueue
}

// Close stops accepting exports. Senders blocked on a full queue give up.
func (s *OrderService) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if s.exportQueue != nil {
		close(s.exportQueue)
		s.exportQueue = nil
	}
}
