package domain

// InventoryItem is the stock record backing one Article.
type InventoryItem struct {
	article      *Article
	unitsInStore int
}

func NewInventoryItem(article *Article, unitsInStore int) (*InventoryItem, error) {
	if article == nil {
		return nil, NewInvalidArgument("inventory item: article is nil")
	}
	item := &InventoryItem{article: article}
	if err := item.SetUnitsInStore(unitsInStore); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *InventoryItem) Article() *Article  { return i.article }
func (i *InventoryItem) UnitsInStore() int { return i.unitsInStore }

// Value is the extended stock value, unit price times units in store.
func (i *InventoryItem) Value() int64 {
	return i.article.UnitPrice() * int64(i.unitsInStore)
}

// SetUnitsInStore rejects negative stock and leaves the item untouched in that case.
func (i *InventoryItem) SetUnitsInStore(units int) error {
	if units < 0 {
		return NewInvalidArgument("article %s: units in store %d < 0", i.article.ID(), units)
	}
	i.unitsInStore = units
	return nil
}

// Receive adds delivered units to the stock.
func (i *InventoryItem) Receive(units int) error {
	if units <= 0 {
		return NewInvalidArgument("article %s: received units %d not positive", i.article.ID(), units)
	}
	return i.SetUnitsInStore(i.unitsInStore + units)
}

// Inventory keeps items in insertion order. Lookups are linear scans; the
// catalogs this serves hold a few hundred articles at most.
type Inventory struct {
	items []*InventoryItem
}

func NewInventory() *Inventory {
	return &Inventory{}
}

// Add registers stock for an article. An article can be stocked only once.
func (inv *Inventory) Add(article *Article, units int) (*InventoryItem, error) {
	if article == nil {
		return nil, NewInvalidArgument("inventory: article is nil")
	}
	if _, ok := inv.Lookup(article.ID()); ok {
		return nil, NewInvalidArgument("inventory: article %s already stocked", article.ID())
	}
	item, err := NewInventoryItem(article, units)
	if err != nil {
		return nil, err
	}
	inv.items = append(inv.items, item)
	return item, nil
}

func (inv *Inventory) Lookup(articleID string) (*InventoryItem, bool) {
	for _, item := range inv.items {
		if item.article.ID() == articleID {
			return item, true
		}
	}
	return nil, false
}

// Items returns the items in insertion order. The slice is a copy, the items are shared.
func (inv *Inventory) Items() []*InventoryItem {
	out := make([]*InventoryItem, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Count() int { return len(inv.items) }
