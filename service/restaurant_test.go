package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"orderease/logger"
	"orderease/models"
	"orderease/notify"
	"orderease/statemachine"
	"orderease/store"
)

var testNow = time.Date(2024, 10, 9, 19, 0, 0, 0, time.UTC)

func newTestRestaurant(t *testing.T, opts ...Option) (*Restaurant, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	base := []Option{
		WithSink(rec),
		WithLogger(logger.NewWithWriter(io.Discard, "orderease", "error")),
		WithClock(func() time.Time { return testNow }),
	}
	return New(append(base, opts...)...), rec
}

func itemByName(t *testing.T, r *Restaurant, name string) models.MenuItem {
	t.Helper()
	for _, it := range r.Menu() {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("menu item %q not found", name)
	return models.MenuItem{}
}

func serverByName(t *testing.T, r *Restaurant, name string) models.Server {
	t.Helper()
	for _, s := range r.Servers() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("server %q not found", name)
	return models.Server{}
}

func TestSampleData(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()

	if got := len(r.Menu()); got != 3 {
		t.Fatalf("menu has %d items, want 3", got)
	}
	if got := len(r.AvailableMenu()); got != 2 {
		t.Fatalf("available menu has %d items, want 2", got)
	}
	table, err := r.Table(1)
	if err != nil {
		t.Fatal(err)
	}
	if table.ServerName != "Alice" || serverByName(t, r, "Alice").Available {
		t.Fatalf("table 1 should be served by an unavailable Alice: %+v", table)
	}
	if !serverByName(t, r, "Bob").Available {
		t.Fatalf("Bob should be available")
	}
}

func TestAssignServer_EndToEnd(t *testing.T) {
	r, _ := newTestRestaurant(t)
	if _, err := r.AddTable(1); err != nil {
		t.Fatal(err)
	}
	r.AddServer("Alice")
	r.AddServer("Bob")

	view, err := r.AssignServer(1, "Alice")
	if err != nil {
		t.Fatalf("AssignServer(Alice): %v", err)
	}
	if view.ServerName != "Alice" || serverByName(t, r, "Alice").Available {
		t.Fatalf("after assigning Alice: %+v", view)
	}

	if _, err := r.AssignServer(1, "bob"); err != nil {
		t.Fatalf("AssignServer(bob): %v", err)
	}
	if !serverByName(t, r, "Alice").Available || serverByName(t, r, "Bob").Available {
		t.Fatalf("Alice should be free and Bob busy")
	}
}

func TestAssignServer_Errors(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()

	if _, err := r.AssignServer(2, "Alice"); !errors.Is(err, ErrServerUnavailable) {
		t.Fatalf("assigning busy Alice: err = %v", err)
	}
	if _, err := r.AssignServer(2, "Carol"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("assigning unknown server: err = %v", err)
	}
	if _, err := r.AssignServer(9, "Bob"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("assigning to unknown table: err = %v", err)
	}
}

func TestPlaceOrder(t *testing.T) {
	r, rec := newTestRestaurant(t)
	r.PopulateSampleData()
	ctx := context.Background()
	burger := itemByName(t, r, "Burger")
	salad := itemByName(t, r, "Salad")

	view, err := r.PlaceOrder(ctx, 1, burger.ID)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if len(view.Items) != 1 || !view.Total.Equal(decimal.RequireFromString("8.99")) {
		t.Fatalf("order = %+v", view)
	}
	table, _ := r.Table(1)
	if table.Status != models.TableSeated || table.SeatingTime == nil || !table.SeatingTime.Equal(testNow) {
		t.Fatalf("ordering at an empty table should seat it: %+v", table)
	}
	events := rec.Events()
	if len(events) != 1 || events[0].Kind != notify.EventNewOrder || events[0].ServerName != "Alice" || events[0].TableNumber != 1 {
		t.Fatalf("events = %+v", events)
	}

	if _, err := r.PlaceOrder(ctx, 1, salad.ID); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("ordering unavailable salad: err = %v", err)
	}

	// Table 2 has no server: the order goes through without a notification.
	if _, err := r.PlaceOrder(ctx, 2, burger.ID); err != nil {
		t.Fatalf("PlaceOrder(2): %v", err)
	}
	if len(rec.Events()) != 1 {
		t.Fatalf("unexpected notification for unassigned table: %+v", rec.Events())
	}
}

func TestRemoveFromOrder(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()
	ctx := context.Background()
	burger := itemByName(t, r, "Burger")
	pizza := itemByName(t, r, "Pizza")

	_, _ = r.PlaceOrder(ctx, 1, burger.ID)
	view, err := r.RemoveFromOrder(1, pizza.ID)
	if err != nil {
		t.Fatalf("removing absent item should not fail: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("order changed: %+v", view)
	}
	view, _ = r.RemoveFromOrder(1, burger.ID)
	if len(view.Items) != 0 || !view.Total.IsZero() {
		t.Fatalf("order not emptied: %+v", view)
	}
}

func TestCallServerAndRequestCheck(t *testing.T) {
	r, rec := newTestRestaurant(t)
	r.PopulateSampleData()
	ctx := context.Background()

	name, err := r.CallServer(ctx, 1)
	if err != nil || name != "Alice" {
		t.Fatalf("CallServer(1) = %q, %v", name, err)
	}
	if _, err := r.CallServer(ctx, 2); !errors.Is(err, ErrNoServer) {
		t.Fatalf("CallServer(2) err = %v, want ErrNoServer", err)
	}
	if _, err := r.RequestCheck(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RequestCheck(ctx, 2); err != nil {
		t.Fatalf("check request without server should still succeed: %v", err)
	}

	var kinds []notify.EventKind
	for _, ev := range rec.Events() {
		kinds = append(kinds, ev.Kind)
	}
	if !slices.Equal(kinds, []notify.EventKind{notify.EventCall, notify.EventCheckRequest}) {
		t.Fatalf("events = %v", kinds)
	}
}

type failingSink struct{}

func (failingSink) Notify(context.Context, notify.Event) error { return errors.New("broker down") }

func TestPlaceOrder_SinkFailureDoesNotFailGuest(t *testing.T) {
	r, _ := newTestRestaurant(t, WithSink(failingSink{}))
	r.PopulateSampleData()
	if _, err := r.PlaceOrder(context.Background(), 1, itemByName(t, r, "Burger").ID); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
}

func TestServerWorkflow(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()
	ctx := context.Background()
	burger := itemByName(t, r, "Burger")

	if _, err := r.MarkServed(1, "Alice"); !errors.Is(err, statemachine.ErrInvalidTransition) {
		t.Fatalf("serving an empty table: err = %v", err)
	}

	if _, err := r.SeatGuests(1, models.RoleServer); err != nil {
		t.Fatalf("SeatGuests: %v", err)
	}
	_, _ = r.PlaceOrder(ctx, 1, burger.ID)

	tables, err := r.ServerTables("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0].Number != 1 || tables[0].SeatedMinutes == nil || *tables[0].SeatedMinutes != 0 {
		t.Fatalf("ServerTables = %+v", tables)
	}

	if _, err := r.CheckIn(1, "Bob"); !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("Bob checking in at Alice's table: err = %v", err)
	}
	if _, err := r.CheckIn(1, "Alice"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	view, err := r.MarkServed(1, "ALICE")
	if err != nil {
		t.Fatalf("MarkServed: %v", err)
	}
	if view.Status != models.TableServed || len(view.Items) != 0 || view.SeatingTime == nil {
		t.Fatalf("after serving: %+v", view)
	}
	if got := r.PopularItems(); len(got) != 0 {
		t.Fatalf("served orders should not count as popular: %v", got)
	}

	// Ordering again puts the table back to SEATED.
	_, _ = r.PlaceOrder(ctx, 1, burger.ID)
	if view, _ := r.Table(1); view.Status != models.TableSeated {
		t.Fatalf("status = %s, want SEATED", view.Status)
	}
}

func TestPopularItems(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()
	if _, err := r.AddTable(3); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	burger := itemByName(t, r, "Burger")
	pizza := itemByName(t, r, "Pizza")

	_, _ = r.PlaceOrder(ctx, 1, burger.ID)
	_, _ = r.PlaceOrder(ctx, 2, burger.ID)
	_, _ = r.PlaceOrder(ctx, 3, pizza.ID)

	want := []string{"Burger (2 orders)", "Pizza (1 orders)"}
	if got := r.PopularItems(); !slices.Equal(got, want) {
		t.Fatalf("PopularItems = %v, want %v", got, want)
	}
}

func TestSaveLoadData(t *testing.T) {
	src, _ := newTestRestaurant(t)
	src.PopulateSampleData()
	_, _ = src.PlaceOrder(context.Background(), 1, itemByName(t, src, "Pizza").ID)

	var buf bytes.Buffer
	if err := src.SaveData(&buf); err != nil {
		t.Fatalf("SaveData: %v", err)
	}
	dst, _ := newTestRestaurant(t)
	if err := dst.LoadData(&buf); err != nil {
		t.Fatalf("LoadData: %v", err)
	}

	table, _ := dst.Table(1)
	if table.ServerName != "Alice" || len(table.Items) != 1 || table.Items[0].Name != "Pizza" {
		t.Fatalf("loaded table 1 = %+v", table)
	}
	if !slices.EqualFunc(src.Servers(), dst.Servers(), func(a, b models.Server) bool { return a == b }) {
		t.Fatalf("servers differ: %+v vs %+v", src.Servers(), dst.Servers())
	}
}

func TestLoadData_FailureKeepsState(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()
	before := r.Tables()

	for _, input := range []string{"", "{\"format\":", "garbage"} {
		err := r.LoadData(strings.NewReader(input))
		if err == nil || !errors.Is(err, store.ErrPersistence) {
			t.Fatalf("LoadData(%q) = %v, want persistence failure", input, err)
		}
	}
	if after := r.Tables(); len(after) != len(before) || len(r.Menu()) != 3 {
		t.Fatalf("state changed after failed load")
	}
}

func TestSaveLoad_WithStore(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "restaurant.json"))

	r, _ := newTestRestaurant(t, WithStore(fs))
	if err := r.Load(ctx); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("Load before any save = %v", err)
	}
	r.PopulateSampleData()
	if err := r.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh, _ := newTestRestaurant(t, WithStore(fs))
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fresh.Tables()) != 2 || len(fresh.Menu()) != 3 {
		t.Fatalf("loaded state incomplete")
	}

	bare, _ := newTestRestaurant(t)
	if err := bare.Save(ctx); !errors.Is(err, ErrNoStore) {
		t.Fatalf("Save without store = %v", err)
	}
}

func TestMenuAdmin(t *testing.T) {
	r, _ := newTestRestaurant(t)
	item := r.AddMenuItem("Soup", "Tomato soup", decimal.RequireFromString("4.50"), false)

	if _, err := r.PlaceOrder(context.Background(), 1, item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("ordering at unknown table: err = %v", err)
	}
	updated, err := r.SetMenuItemAvailable(item.ID, true)
	if err != nil || !updated.Available {
		t.Fatalf("SetMenuItemAvailable = %+v, %v", updated, err)
	}
	if len(r.AvailableMenu()) != 1 {
		t.Fatalf("soup should be available")
	}
	if err := r.RemoveMenuItem(item.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.RemoveMenuItem(item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second remove: err = %v", err)
	}
}

func TestAddTable_Duplicate(t *testing.T) {
	r, _ := newTestRestaurant(t)
	if _, err := r.AddTable(5); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddTable(5); !errors.Is(err, models.ErrDuplicateTable) {
		t.Fatalf("err = %v", err)
	}
}

func TestSitDown(t *testing.T) {
	r, _ := newTestRestaurant(t)
	r.PopulateSampleData()
	view, err := r.SitDown(2)
	if err != nil || view.Status != models.TableSeated || view.SeatingTime == nil {
		t.Fatalf("SitDown = %+v, %v", view, err)
	}
}
