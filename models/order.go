package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableStatus is the lifecycle state of a table's seating.
type TableStatus string

const (
	TableEmpty  TableStatus = "EMPTY"
	TableSeated TableStatus = "SEATED"
	TableServed TableStatus = "SERVED"
)

// Order is the list of items accumulated for one seating. The running total
// is updated together with the item list and always equals the sum of item
// prices.
type Order struct {
	items []MenuItem
	total decimal.Decimal
}

func NewOrder() *Order {
	return &Order{total: decimal.Zero}
}

// AddItem appends a snapshot of item and adds its price to the total.
func (o *Order) AddItem(item MenuItem) {
	o.items = append(o.items, item)
	o.total = o.total.Add(item.Price)
}

// RemoveItem removes the first occurrence of the item with the given ID.
// It reports whether anything was removed.
func (o *Order) RemoveItem(id uuid.UUID) bool {
	for i, it := range o.items {
		if it.ID != id {
			continue
		}
		o.items = append(o.items[:i], o.items[i+1:]...)
		o.total = o.total.Sub(it.Price)
		return true
	}
	return false
}

func (o *Order) Clear() {
	o.items = nil
	o.total = decimal.Zero
}

func (o *Order) Items() []MenuItem {
	out := make([]MenuItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) TotalCost() decimal.Decimal { return o.total }

func (o *Order) Len() int { return len(o.items) }
