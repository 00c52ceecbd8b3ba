package models

import (
	"iter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by the restaurant. Only Available changes after
// creation.
type MenuItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

func NewMenuItem(name, description string, price decimal.Decimal, available bool) *MenuItem {
	return &MenuItem{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Available:   available,
	}
}

// MenuCatalog keeps menu items in insertion order. Duplicate names are allowed.
type MenuCatalog struct {
	items []*MenuItem
}

func NewMenuCatalog() *MenuCatalog {
	return &MenuCatalog{}
}

func (c *MenuCatalog) Add(item *MenuItem) {
	c.items = append(c.items, item)
}

// Remove drops the item with the given ID. Removing an absent item is a no-op.
func (c *MenuCatalog) Remove(id uuid.UUID) bool {
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns every item in insertion order.
func (c *MenuCatalog) List() []*MenuItem {
	out := make([]*MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Available yields the items currently marked available, in insertion order.
func (c *MenuCatalog) Available() iter.Seq[*MenuItem] {
	return func(yield func(*MenuItem) bool) {
		for _, it := range c.items {
			if !it.Available {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

func (c *MenuCatalog) Get(id uuid.UUID) (*MenuItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// SetAvailable toggles an item's availability. It reports false when the
// item is not in the catalog.
func (c *MenuCatalog) SetAvailable(id uuid.UUID, available bool) (*MenuItem, bool) {
	it, ok := c.Get(id)
	if ok {
		it.Available = available
	}
	return it, ok
}

func (c *MenuCatalog) Len() int { return len(c.items) }
