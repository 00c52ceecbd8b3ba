package models

import (
	"fmt"
	"sort"
	"strings"
)

// Restaurant owns the menu, the staff and the tables. It is not safe for
// concurrent use; service.Restaurant serializes access to it.
type Restaurant struct {
	Menu    *MenuCatalog
	Servers *ServerRegistry
	tables  []*Table
}

func NewRestaurant() *Restaurant {
	return &Restaurant{
		Menu:    NewMenuCatalog(),
		Servers: NewServerRegistry(),
	}
}

func (r *Restaurant) AddMenuItem(item *MenuItem) { r.Menu.Add(item) }

func (r *Restaurant) AddServer(s *Server) { r.Servers.Add(s) }

// AddTable rejects a table whose number is already taken.
func (r *Restaurant) AddTable(t *Table) error {
	for _, existing := range r.tables {
		if existing.Number == t.Number {
			return fmt.Errorf("table %d: %w", t.Number, ErrDuplicateTable)
		}
	}
	r.tables = append(r.tables, t)
	return nil
}

func (r *Restaurant) Tables() []*Table {
	out := make([]*Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// AssignedServer resolves the table's server handle. It returns nil when the
// table is unassigned or the handle no longer resolves.
func (r *Restaurant) AssignedServer(t *Table) *Server {
	if !t.HasServer() {
		return nil
	}
	s, ok := r.Servers.Get(t.ServerID)
	if !ok {
		return nil
	}
	return s
}

// ReassignServer frees the table's current server, whatever other tables it
// may serve, then assigns s and marks it unavailable. The caller is expected
// to have checked that s is available.
func (r *Restaurant) ReassignServer(t *Table, s *Server) {
	if current := r.AssignedServer(t); current != nil {
		current.Available = true
	}
	t.ServerID = s.ID
	s.Available = false
}

// FindTable returns the first table with the given number. When required is
// non-nil the table must also be assigned to exactly that server.
func (r *Restaurant) FindTable(number int, required *Server) (*Table, bool) {
	for _, t := range r.tables {
		if t.Number != number {
			continue
		}
		if required != nil && t.ServerID != required.ID {
			continue
		}
		return t, true
	}
	return nil, false
}

// TablesServedBy lists tables whose assigned server has the same name as s,
// compared case-insensitively.
func (r *Restaurant) TablesServedBy(s *Server) []*Table {
	var out []*Table
	for _, t := range r.tables {
		assigned := r.AssignedServer(t)
		if assigned != nil && strings.EqualFold(assigned.Name, s.Name) {
			out = append(out, t)
		}
	}
	return out
}

// ItemCount is the number of open-order lines carrying a menu item name.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ItemPopularity counts item names across every table's current order.
// Served orders are cleared, so only open orders contribute. Results are
// sorted by count descending, then by name.
func (r *Restaurant) ItemPopularity() []ItemCount {
	counts := map[string]int{}
	for _, t := range r.tables {
		for _, it := range t.Order.Items() {
			counts[it.Name]++
		}
	}
	out := make([]ItemCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, ItemCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PopularItems formats ItemPopularity as "{name} ({count} orders)".
func (r *Restaurant) PopularItems() []string {
	pop := r.ItemPopularity()
	out := make([]string, len(pop))
	for i, p := range pop {
		out[i] = fmt.Sprintf("%s (%d orders)", p.Name, p.Count)
	}
	return out
}
