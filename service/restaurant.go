// Package service runs guest, server and admin use cases against a single
// restaurant. Every method holds the restaurant lock, so the HTTP shell can
// call it from concurrent handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderease/logger"
	"orderease/models"
	"orderease/notify"
	"orderease/statemachine"
	"orderease/store"
)

var (
	ErrNoServer          = errors.New("no server assigned to this table")
	ErrServerUnavailable = errors.New("server not available")
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrNotAssigned       = errors.New("table not found or not assigned to you")
	ErrNoStore           = errors.New("no store configured")
)

type Restaurant struct {
	mu    sync.Mutex
	state *models.Restaurant
	store store.Store
	sink  notify.Sink
	log   *logger.Logger
	now   func() time.Time
}

type Option func(*Restaurant)

func WithStore(s store.Store) Option { return func(r *Restaurant) { r.store = s } }

func WithSink(s notify.Sink) Option { return func(r *Restaurant) { r.sink = s } }

func WithLogger(l *logger.Logger) Option { return func(r *Restaurant) { r.log = l } }

func WithClock(now func() time.Time) Option { return func(r *Restaurant) { r.now = now } }

// New returns an empty restaurant. Without WithSink, notifications go to the
// log.
func New(opts ...Option) *Restaurant {
	r := &Restaurant{
		state: models.NewRestaurant(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.New("orderease", "info")
	}
	if r.sink == nil {
		r.sink = &notify.LogSink{Log: r.log}
	}
	return r
}

// TableView is a read-only copy of a table for the shell.
type TableView struct {
	Number        int                `json:"table_number"`
	ServerName    string             `json:"server_name,omitempty"`
	Status        models.TableStatus `json:"status"`
	SeatingTime   *time.Time         `json:"seating_time,omitempty"`
	SeatedMinutes *int               `json:"seated_minutes,omitempty"`
	Items         []models.MenuItem  `json:"items"`
	Total         decimal.Decimal    `json:"total"`
}

// OrderView is a read-only copy of a table's current order.
type OrderView struct {
	TableNumber int               `json:"table_number"`
	Items       []models.MenuItem `json:"items"`
	Total       decimal.Decimal   `json:"total"`
}

func (r *Restaurant) tableView(t *models.Table) TableView {
	v := TableView{
		Number:      t.Number,
		Status:      t.Status,
		SeatingTime: t.SeatingTime,
		Items:       t.Order.Items(),
		Total:       t.Order.TotalCost(),
	}
	if s := r.state.AssignedServer(t); s != nil {
		v.ServerName = s.Name
	}
	if mins, err := t.SeatingDuration(r.now()); err == nil {
		v.SeatedMinutes = &mins
	}
	return v
}

func orderView(t *models.Table) OrderView {
	return OrderView{TableNumber: t.Number, Items: t.Order.Items(), Total: t.Order.TotalCost()}
}

func (r *Restaurant) table(number int) (*models.Table, error) {
	t, ok := r.state.FindTable(number, nil)
	if !ok {
		return nil, fmt.Errorf("table %d: %w", number, models.ErrNotFound)
	}
	return t, nil
}

func (r *Restaurant) server(name string) (*models.Server, error) {
	s, ok := r.state.Servers.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("server %q: %w", name, models.ErrNotFound)
	}
	return s, nil
}

// serverTable finds a table assigned to the named server.
func (r *Restaurant) serverTable(number int, serverName string) (*models.Table, error) {
	s, err := r.server(serverName)
	if err != nil {
		return nil, err
	}
	t, ok := r.state.FindTable(number, s)
	if !ok {
		return nil, fmt.Errorf("table %d: %w", number, ErrNotAssigned)
	}
	return t, nil
}

func (r *Restaurant) notify(ctx context.Context, ev *notify.Event) {
	if ev == nil {
		return
	}
	if err := r.sink.Notify(ctx, *ev); err != nil {
		r.log.Error("notify_failed", "failed to deliver notification", err,
			"kind", string(ev.Kind), "table_number", ev.TableNumber)
	}
}

func (r *Restaurant) event(kind notify.EventKind, t *models.Table) *notify.Event {
	s := r.state.AssignedServer(t)
	if s == nil {
		return nil
	}
	return &notify.Event{Kind: kind, TableNumber: t.Number, ServerName: s.Name, At: r.now()}
}

// PopulateSampleData replaces the state with a small demo restaurant.
func (r *Restaurant) PopulateSampleData() {
	sample := models.NewRestaurant()
	sample.AddMenuItem(models.NewMenuItem("Burger", "Beef patty with cheese", decimal.RequireFromString("8.99"), true))
	sample.AddMenuItem(models.NewMenuItem("Pizza", "Pepperoni pizza", decimal.RequireFromString("12.99"), true))
	sample.AddMenuItem(models.NewMenuItem("Salad", "Caesar salad", decimal.RequireFromString("6.99"), false))
	alice := models.NewServer("Alice")
	sample.AddServer(alice)
	sample.AddServer(models.NewServer("Bob"))
	t1 := models.NewTable(1)
	_ = sample.AddTable(t1)
	_ = sample.AddTable(models.NewTable(2))
	sample.ReassignServer(t1, alice)

	r.mu.Lock()
	r.state = sample
	r.mu.Unlock()
}

// ── Menu ────────────────────────────────────────────────────────────────────

func (r *Restaurant) Menu() []models.MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MenuItem
	for _, it := range r.state.Menu.List() {
		out = append(out, *it)
	}
	return out
}

func (r *Restaurant) AvailableMenu() []models.MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MenuItem
	for it := range r.state.Menu.Available() {
		out = append(out, *it)
	}
	return out
}

func (r *Restaurant) AddMenuItem(name, description string, price decimal.Decimal, available bool) models.MenuItem {
	item := models.NewMenuItem(name, description, price, available)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.AddMenuItem(item)
	return *item
}

func (r *Restaurant) RemoveMenuItem(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.Menu.Remove(id) {
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *Restaurant) SetMenuItemAvailable(id uuid.UUID, available bool) (models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.state.Menu.SetAvailable(id, available)
	if !ok {
		return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	return *item, nil
}

// ── Staff and tables ────────────────────────────────────────────────────────

func (r *Restaurant) AddServer(name string) models.Server {
	s := models.NewServer(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.AddServer(s)
	return *s
}

func (r *Restaurant) Servers() []models.Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Server
	for _, s := range r.state.Servers.List() {
		out = append(out, *s)
	}
	return out
}

func (r *Restaurant) AddTable(number int) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := models.NewTable(number)
	if err := r.state.AddTable(t); err != nil {
		return TableView{}, err
	}
	return r.tableView(t), nil
}

func (r *Restaurant) Tables() []TableView {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []TableView
	for _, t := range r.state.Tables() {
		out = append(out, r.tableView(t))
	}
	return out
}

func (r *Restaurant) Table(number int) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return TableView{}, err
	}
	return r.tableView(t), nil
}

// AssignServer checks that the named server is available and then reassigns
// the table to it.
func (r *Restaurant) AssignServer(number int, serverName string) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return TableView{}, err
	}
	s, err := r.server(serverName)
	if err != nil {
		return TableView{}, err
	}
	if !s.Available {
		return TableView{}, fmt.Errorf("server %q: %w", s.Name, ErrServerUnavailable)
	}
	r.state.ReassignServer(t, s)
	r.log.Info("server_assigned", "server assigned to table", "table_number", number, "server_name", s.Name)
	return r.tableView(t), nil
}

func (r *Restaurant) PopularItems() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.PopularItems()
}

func (r *Restaurant) ItemPopularity() []models.ItemCount {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ItemPopularity()
}

// ── Guest ───────────────────────────────────────────────────────────────────

// SitDown seats guests at an empty table. Tables already seated are returned
// unchanged.
func (r *Restaurant) SitDown(number int) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return TableView{}, err
	}
	if t.Status == models.TableEmpty {
		t.Seat(r.now())
	}
	return r.tableView(t), nil
}

// PlaceOrder adds an available menu item to the table's order and notifies
// the assigned server, if any.
func (r *Restaurant) PlaceOrder(ctx context.Context, number int, itemID uuid.UUID) (OrderView, error) {
	r.mu.Lock()
	t, err := r.table(number)
	if err != nil {
		r.mu.Unlock()
		return OrderView{}, err
	}
	item, ok := r.state.Menu.Get(itemID)
	if !ok {
		r.mu.Unlock()
		return OrderView{}, fmt.Errorf("menu item %s: %w", itemID, models.ErrNotFound)
	}
	if !item.Available {
		r.mu.Unlock()
		return OrderView{}, fmt.Errorf("%s: %w", item.Name, ErrItemUnavailable)
	}
	if t.Status != models.TableSeated {
		if err := statemachine.CanTransition(t.Status, models.TableSeated, models.RoleGuest); err != nil {
			r.mu.Unlock()
			return OrderView{}, err
		}
		if t.Status == models.TableEmpty {
			t.Seat(r.now())
		}
		t.Status = models.TableSeated
	}
	t.Order.AddItem(*item)
	view := orderView(t)
	ev := r.event(notify.EventNewOrder, t)
	r.mu.Unlock()

	r.notify(ctx, ev)
	return view, nil
}

// RemoveFromOrder drops the first matching item. Removing an item that is not
// on the order leaves it unchanged.
func (r *Restaurant) RemoveFromOrder(number int, itemID uuid.UUID) (OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return OrderView{}, err
	}
	t.Order.RemoveItem(itemID)
	return orderView(t), nil
}

func (r *Restaurant) CurrentOrder(number int) (OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return OrderView{}, err
	}
	return orderView(t), nil
}

// CallServer notifies the table's server and returns its name.
func (r *Restaurant) CallServer(ctx context.Context, number int) (string, error) {
	r.mu.Lock()
	t, err := r.table(number)
	if err != nil {
		r.mu.Unlock()
		return "", err
	}
	ev := r.event(notify.EventCall, t)
	r.mu.Unlock()

	if ev == nil {
		return "", fmt.Errorf("table %d: %w", number, ErrNoServer)
	}
	r.notify(ctx, ev)
	return ev.ServerName, nil
}

// RequestCheck notifies the table's server, if any, and returns the order to
// be paid.
func (r *Restaurant) RequestCheck(ctx context.Context, number int) (OrderView, error) {
	r.mu.Lock()
	t, err := r.table(number)
	if err != nil {
		r.mu.Unlock()
		return OrderView{}, err
	}
	view := orderView(t)
	ev := r.event(notify.EventCheckRequest, t)
	r.mu.Unlock()

	r.notify(ctx, ev)
	return view, nil
}

// ── Server ──────────────────────────────────────────────────────────────────

// ServerTables lists the tables of the named server.
func (r *Restaurant) ServerTables(serverName string) ([]TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.server(serverName)
	if err != nil {
		return nil, err
	}
	var out []TableView
	for _, t := range r.state.TablesServedBy(s) {
		out = append(out, r.tableView(t))
	}
	return out, nil
}

// SeatGuests records a new seating at a table on behalf of actor.
func (r *Restaurant) SeatGuests(number int, actor models.Role) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.table(number)
	if err != nil {
		return TableView{}, err
	}
	if err := statemachine.CanTransition(t.Status, models.TableSeated, actor); err != nil {
		return TableView{}, err
	}
	t.Seat(r.now())
	return r.tableView(t), nil
}

func (r *Restaurant) CheckIn(number int, serverName string) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.serverTable(number, serverName)
	if err != nil {
		return TableView{}, err
	}
	r.log.Info("checked_in", "server checked in with table", "table_number", number, "server_name", serverName)
	return r.tableView(t), nil
}

// MarkServed clears the table's order. The seating time is kept.
func (r *Restaurant) MarkServed(number int, serverName string) (TableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.serverTable(number, serverName)
	if err != nil {
		return TableView{}, err
	}
	if err := statemachine.CanTransition(t.Status, models.TableServed, models.RoleServer); err != nil {
		return TableView{}, err
	}
	t.Order.Clear()
	t.Status = models.TableServed
	return r.tableView(t), nil
}

// ── Persistence ─────────────────────────────────────────────────────────────

// SaveData writes the whole restaurant to w.
func (r *Restaurant) SaveData(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return store.Encode(w, r.state, r.now().UTC())
}

// LoadData replaces the restaurant with the one read from rd. On error the
// current state is kept.
func (r *Restaurant) LoadData(rd io.Reader) error {
	loaded, err := store.Decode(rd)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.state = loaded
	r.mu.Unlock()
	return nil
}

func (r *Restaurant) Save(ctx context.Context) error {
	if r.store == nil {
		return ErrNoStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, r.state); err != nil {
		return err
	}
	r.log.Info("state_saved", "restaurant state saved", "tables", len(r.state.Tables()))
	return nil
}

// Load replaces the restaurant with the stored one. On error the current
// state is kept.
func (r *Restaurant) Load(ctx context.Context) error {
	if r.store == nil {
		return ErrNoStore
	}
	loaded, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.state = loaded
	r.mu.Unlock()
	r.log.Info("state_loaded", "restaurant state loaded", "tables", len(loaded.Tables()))
	return nil
}

