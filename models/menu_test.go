package models

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestMenuCatalog(t *testing.T) {
	c := NewMenuCatalog()
	burger := NewMenuItem("Burger", "", decimal.RequireFromString("8.99"), true)
	salad := NewMenuItem("Salad", "", decimal.RequireFromString("6.99"), false)
	burger2 := NewMenuItem("Burger", "double", decimal.RequireFromString("10.99"), true)
	c.Add(burger)
	c.Add(salad)
	c.Add(burger2)

	if got := c.List(); len(got) != 3 || got[0] != burger || got[2] != burger2 {
		t.Fatalf("List = %+v", got)
	}

	avail := slices.Collect(c.Available())
	if len(avail) != 2 || avail[0] != burger || avail[1] != burger2 {
		t.Fatalf("Available = %+v", avail)
	}

	if c.Remove(uuid.New()) {
		t.Fatalf("Remove of unknown id reported true")
	}
	if !c.Remove(salad.ID) || c.Len() != 2 {
		t.Fatalf("Remove(salad) failed, len=%d", c.Len())
	}
	if _, ok := c.Get(salad.ID); ok {
		t.Fatalf("salad still present")
	}
}

func TestMenuCatalogSetAvailable(t *testing.T) {
	c := NewMenuCatalog()
	salad := NewMenuItem("Salad", "Caesar", decimal.RequireFromString("6.99"), false)
	c.Add(salad)

	if _, ok := c.SetAvailable(uuid.New(), true); ok {
		t.Fatalf("SetAvailable of unknown id reported true")
	}
	if it, ok := c.SetAvailable(salad.ID, true); !ok || !it.Available {
		t.Fatalf("SetAvailable(salad) = %+v, %v", it, ok)
	}
	if n := len(slices.Collect(c.Available())); n != 1 {
		t.Errorf("available = %d, want 1", n)
	}
}
