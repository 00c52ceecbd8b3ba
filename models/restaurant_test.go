package models

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestServerRegistry_FindByNameIsCaseInsensitive(t *testing.T) {
	reg := NewServerRegistry()
	alice := NewServer("Alice")
	reg.Add(alice)
	reg.Add(NewServer("ALICE"))

	for _, name := range []string{"alice", "Alice", "aLiCe"} {
		got, ok := reg.FindByName(name)
		if !ok || got != alice {
			t.Fatalf("FindByName(%q) = %v, %v; want first Alice", name, got, ok)
		}
	}
	if _, ok := reg.FindByName("carol"); ok {
		t.Fatalf("FindByName(carol) should miss")
	}
}

func TestReassignServer(t *testing.T) {
	r := NewRestaurant()
	table := NewTable(1)
	if err := r.AddTable(table); err != nil {
		t.Fatal(err)
	}
	alice, bob := NewServer("Alice"), NewServer("Bob")
	r.AddServer(alice)
	r.AddServer(bob)

	r.ReassignServer(table, alice)
	if alice.Available || r.AssignedServer(table) != alice {
		t.Fatalf("after first assignment: alice.Available=%v assigned=%v", alice.Available, r.AssignedServer(table))
	}

	r.ReassignServer(table, bob)
	if !alice.Available || bob.Available || r.AssignedServer(table) != bob {
		t.Fatalf("after reassignment: alice=%v bob=%v", alice.Available, bob.Available)
	}

	r.ReassignServer(table, bob)
	if bob.Available || r.AssignedServer(table) != bob {
		t.Fatalf("self reassignment should leave bob unavailable")
	}
}

func TestReassignServer_FreesServerOfOtherTables(t *testing.T) {
	r := NewRestaurant()
	t1, t2 := NewTable(1), NewTable(2)
	_ = r.AddTable(t1)
	_ = r.AddTable(t2)
	alice, bob := NewServer("Alice"), NewServer("Bob")
	r.AddServer(alice)
	r.AddServer(bob)

	r.ReassignServer(t1, alice)
	r.ReassignServer(t2, alice)
	r.ReassignServer(t1, bob)

	// Single-assignment model: alice is freed although table 2 still has her.
	if !alice.Available {
		t.Fatalf("alice should be available")
	}
	if r.AssignedServer(t2) != alice {
		t.Fatalf("table 2 should keep alice")
	}
}

func TestAddTable_RejectsDuplicateNumber(t *testing.T) {
	r := NewRestaurant()
	_ = r.AddTable(NewTable(1))
	if err := r.AddTable(NewTable(1)); !errors.Is(err, ErrDuplicateTable) {
		t.Fatalf("err = %v, want ErrDuplicateTable", err)
	}
}

func TestFindTable(t *testing.T) {
	r := NewRestaurant()
	t1, t2 := NewTable(1), NewTable(2)
	_ = r.AddTable(t1)
	_ = r.AddTable(t2)
	alice, bob := NewServer("Alice"), NewServer("Bob")
	r.ReassignServer(t1, alice)

	if got, ok := r.FindTable(2, nil); !ok || got != t2 {
		t.Fatalf("FindTable(2, nil) = %v, %v", got, ok)
	}
	if got, ok := r.FindTable(1, alice); !ok || got != t1 {
		t.Fatalf("FindTable(1, alice) = %v, %v", got, ok)
	}
	if _, ok := r.FindTable(1, bob); ok {
		t.Fatalf("FindTable(1, bob) should miss")
	}
	if _, ok := r.FindTable(9, nil); ok {
		t.Fatalf("FindTable(9) should miss")
	}
}

func TestPopularItems(t *testing.T) {
	r := NewRestaurant()
	burger := NewMenuItem("Burger", "", decimal.RequireFromString("8.99"), true)
	pizza := NewMenuItem("Pizza", "", decimal.RequireFromString("12.99"), true)
	fries := NewMenuItem("Fries", "", decimal.RequireFromString("3.50"), true)
	for i := 1; i <= 3; i++ {
		_ = r.AddTable(NewTable(i))
	}
	tables := r.Tables()
	tables[0].Order.AddItem(*burger)
	tables[1].Order.AddItem(*burger)
	tables[2].Order.AddItem(*pizza)
	tables[2].Order.AddItem(*fries)

	want := []string{"Burger (2 orders)", "Fries (1 orders)", "Pizza (1 orders)"}
	if got := r.PopularItems(); !slices.Equal(got, want) {
		t.Fatalf("PopularItems = %v, want %v", got, want)
	}

	tables[0].Order.Clear()
	tables[1].Order.Clear()
	want = []string{"Fries (1 orders)", "Pizza (1 orders)"}
	if got := r.PopularItems(); !slices.Equal(got, want) {
		t.Fatalf("after clearing: PopularItems = %v, want %v", got, want)
	}
}

func TestTable_SeatingDuration(t *testing.T) {
	table := NewTable(4)
	now := time.Date(2024, 10, 9, 18, 0, 0, 0, time.UTC)
	if _, err := table.SeatingDuration(now); !errors.Is(err, ErrNotSeated) {
		t.Fatalf("err = %v, want ErrNotSeated", err)
	}
	table.Seat(now.Add(-45*time.Minute - 30*time.Second))
	got, err := table.SeatingDuration(now)
	if err != nil || got != 45 {
		t.Fatalf("SeatingDuration = %d, %v; want 45", got, err)
	}
	if table.Status != TableSeated {
		t.Fatalf("status = %s", table.Status)
	}
}

func TestTablesServedBy(t *testing.T) {
	r := NewRestaurant()
	t1, t2, t3 := NewTable(1), NewTable(2), NewTable(3)
	_ = r.AddTable(t1)
	_ = r.AddTable(t2)
	_ = r.AddTable(t3)
	alice, bob := NewServer("Alice"), NewServer("Bob")
	r.AddServer(alice)
	r.AddServer(bob)
	r.ReassignServer(t1, alice)
	r.ReassignServer(t2, bob)
	r.ReassignServer(t3, alice)

	got := r.TablesServedBy(&Server{Name: "ALICE"})
	if len(got) != 2 || got[0] != t1 || got[1] != t3 {
		t.Fatalf("TablesServedBy = %+v", got)
	}
}
