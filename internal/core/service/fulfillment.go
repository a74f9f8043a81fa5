package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/core/tax"
	"github.com/rl1809/order-desk/internal/port"
)

// InventoryManager decides whether orders can be served from the inventory
// and removes their units from stock when they are.
type InventoryManager struct {
	mu        sync.Mutex
	inventory *domain.Inventory
	accepted  port.Repository[domain.Order, string]
	logger    *zap.Logger
	now       func() time.Time
}

func NewInventoryManager(inventory *domain.Inventory, accepted port.Repository[domain.Order, string], logger *zap.Logger) (*InventoryManager, error) {
	if inventory == nil {
		return nil, domain.NewInvalidArgument("inventory manager: inventory is nil")
	}
	if accepted == nil {
		return nil, domain.NewInvalidArgument("inventory manager: order store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryManager{
		inventory: inventory,
		accepted:  accepted,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (m *InventoryManager) Inventory() *domain.Inventory { return m.inventory }

// IsFillable checks the summed demand per article against the stock. A
// rejection is returned as *NotFillableError.
func (m *InventoryManager) IsFillable(order *domain.Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isFillable(order)
}

// Fill removes the ordered units from stock and stores the order. It does not
// check fillability first; a line that would drive stock negative fails and
// the lines before it stay applied.
func (m *InventoryManager) Fill(order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.fill(order)
	return err
}

// TryFill runs IsFillable and Fill as one step.
func (m *InventoryManager) TryFill(order *domain.Order) (*domain.Fulfillment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.isFillable(order); err != nil {
		return nil, err
	}
	return m.fill(order)
}

// Restock adds received units to an article's stock.
func (m *InventoryManager) Restock(articleID string, units int) (*domain.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.inventory.Lookup(articleID)
	if !ok {
		return nil, fmt.Errorf("article %s: %w", articleID, domain.ErrNotFound)
	}
	if err := item.Receive(units); err != nil {
		return nil, err
	}
	m.logger.Info("article restocked",
		zap.String("article_id", articleID),
		zap.Int("units", units),
		zap.Int("units_in_store", item.UnitsInStore()))
	return item, nil
}

func (m *InventoryManager) isFillable(order *domain.Order) (bool, error) {
	if order == nil {
		return false, domain.NewInvalidArgument("order is nil")
	}

	type demand struct {
		article *domain.Article
		units   int
	}
	var seen []string
	demands := make(map[string]*demand)
	for _, line := range order.Items() {
		id := line.Article().ID()
		d, ok := demands[id]
		if !ok {
			d = &demand{article: line.Article()}
			demands[id] = d
			seen = append(seen, id)
		}
		d.units += line.UnitsOrdered()
	}

	var shortages []Shortage
	for _, id := range seen {
		d := demands[id]
		inStore := 0
		if item, ok := m.inventory.Lookup(id); ok {
			inStore = item.UnitsInStore()
		}
		if d.units > inStore {
			shortages = append(shortages, Shortage{
				ArticleID:   id,
				Description: d.article.Description(),
				Demand:      d.units,
				InStore:     inStore,
			})
		}
	}
	if len(shortages) > 0 {
		return false, &NotFillableError{OrderID: order.ID(), Shortages: shortages}
	}
	return true, nil
}

func (m *InventoryManager) fill(order *domain.Order) (*domain.Fulfillment, error) {
	if order == nil {
		return nil, domain.NewInvalidArgument("order is nil")
	}
	if order.ID() == "" {
		return nil, domain.NewInvalidArgument("order has no id")
	}
	customerID, _ := order.Customer().ID()

	lines := make([]domain.FulfilledLine, 0, order.ItemsCount())
	for _, line := range order.Items() {
		article := line.Article()
		item, ok := m.inventory.Lookup(article.ID())
		if !ok {
			return nil, domain.NewInvalidArgument("order %s: article %s not in inventory", order.ID(), article.ID())
		}
		if err := item.SetUnitsInStore(item.UnitsInStore() - line.UnitsOrdered()); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID(), err)
		}
		lines = append(lines, domain.FulfilledLine{
			ArticleID:   article.ID(),
			Description: article.Description(),
			Units:       line.UnitsOrdered(),
			UnitPrice:   article.UnitPrice(),
			LinePrice:   line.Price(),
			LineTax:     tax.IncludedVAT(line.Price(), article.Tax()),
			StockAfter:  item.UnitsInStore(),
		})
	}

	if _, err := m.accepted.Save(order); err != nil {
		return nil, err
	}

	value, vat := tax.ValueAndTax(order)
	m.logger.Info("order filled",
		zap.String("order_id", order.ID()),
		zap.Int64("customer_id", customerID),
		zap.Int("lines", len(lines)),
		zap.Int64("value", value))

	return &domain.Fulfillment{
		OrderID:    order.ID(),
		CustomerID: customerID,
		CreatedAt:  order.CreatedAt(),
		FilledAt:   m.now(),
		Lines:      lines,
		Value:      value,
		Tax:        vat,
	}, nil
}
