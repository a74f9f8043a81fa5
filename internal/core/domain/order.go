package domain

import (
	"strings"
	"time"
)

type OrderItem struct {
	article      *Article
	unitsOrdered int
}

func (i OrderItem) Article() *Article  { return i.article }
func (i OrderItem) UnitsOrdered() int { return i.unitsOrdered }

// Price is unit price times units ordered.
func (i OrderItem) Price() int64 {
	return i.article.UnitPrice() * int64(i.unitsOrdered)
}

// Order is treated as immutable by convention once it has been accepted.
type Order struct {
	id        string
	customer  *Customer
	createdAt time.Time
	items     []OrderItem
}

func NewOrder(customer *Customer) (*Order, error) {
	if customer == nil {
		return nil, NewInvalidArgument("order: customer is nil")
	}
	return &Order{
		customer:  customer,
		createdAt: time.Now().UTC(),
	}, nil
}

func (o *Order) ID() string { return o.id }

// SetID assigns the id once; later calls with a valid id are ignored.
func (o *Order) SetID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewInvalidArgument("order id is empty")
	}
	if o.id == "" {
		o.id = id
	}
	return nil
}

func (o *Order) Customer() *Customer  { return o.customer }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) SetCreatedAt(t time.Time) {
	o.createdAt = t.UTC()
}

// AddItem appends a line. Several lines may reference the same article.
func (o *Order) AddItem(article *Article, units int) error {
	if article == nil {
		return NewInvalidArgument("order %s: article is nil", o.id)
	}
	if units <= 0 {
		return NewInvalidArgument("order %s: units %d not positive", o.id, units)
	}
	o.items = append(o.items, OrderItem{article: article, unitsOrdered: units})
	return nil
}

// Items returns the lines in insertion order.
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) ItemsCount() int { return len(o.items) }

// RemoveItem ignores out-of-range indexes.
func (o *Order) RemoveItem(i int) {
	if i >= 0 && i < len(o.items) {
		o.items = append(o.items[:i], o.items[i+1:]...)
	}
}

func (o *Order) ClearItems() { o.items = nil }
