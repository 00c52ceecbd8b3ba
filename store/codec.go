package store

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderease/models"
)

const (
	formatName    = "orderease/restaurant"
	formatVersion = 1
)

type snapshot struct {
	Format  string            `json:"format"`
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Menu    []models.MenuItem `json:"menu"`
	Servers []models.Server   `json:"servers"`
	Tables  []tableRecord     `json:"tables"`
}

type tableRecord struct {
	Number      int                `json:"number"`
	ServerID    *uuid.UUID         `json:"server_id,omitempty"`
	Status      models.TableStatus `json:"status"`
	SeatingTime *time.Time         `json:"seating_time,omitempty"`
	Items       []models.MenuItem  `json:"items"`
	Total       decimal.Decimal    `json:"total"`
}

// Encode writes r to w as a self-describing JSON document.
func Encode(w io.Writer, r *models.Restaurant, savedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toSnapshot(r, savedAt)); err != nil {
		return saveErr("encode", err)
	}
	return nil
}

// Decode reads a document written by Encode. Empty, truncated or
// inconsistent input is rejected with a *Error.
func Decode(rd io.Reader) (*models.Restaurant, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, loadErr("read", err)
	}
	if len(data) == 0 {
		return nil, loadErr("empty snapshot", nil)
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, loadErr("malformed snapshot", err)
	}
	if s.Format != formatName {
		return nil, loadErr("schema mismatch", fmt.Errorf("format %q, want %q", s.Format, formatName))
	}
	if s.Version != formatVersion {
		return nil, loadErr("schema mismatch", fmt.Errorf("version %d, want %d", s.Version, formatVersion))
	}
	return fromSnapshot(&s)
}

func toSnapshot(r *models.Restaurant, savedAt time.Time) *snapshot {
	s := &snapshot{
		Format:  formatName,
		Version: formatVersion,
		SavedAt: savedAt,
		Menu:    []models.MenuItem{},
		Servers: []models.Server{},
		Tables:  []tableRecord{},
	}
	for _, it := range r.Menu.List() {
		s.Menu = append(s.Menu, *it)
	}
	for _, sv := range r.Servers.List() {
		s.Servers = append(s.Servers, *sv)
	}
	for _, t := range r.Tables() {
		rec := tableRecord{
			Number:      t.Number,
			Status:      t.Status,
			SeatingTime: t.SeatingTime,
			Items:       t.Order.Items(),
			Total:       t.Order.TotalCost(),
		}
		if t.HasServer() {
			id := t.ServerID
			rec.ServerID = &id
		}
		s.Tables = append(s.Tables, rec)
	}
	return s
}

func fromSnapshot(s *snapshot) (*models.Restaurant, error) {
	r := models.NewRestaurant()
	for i := range s.Menu {
		item := s.Menu[i]
		if item.Price.IsNegative() {
			return nil, loadErr("corrupt snapshot", fmt.Errorf("menu item %q has negative price %s", item.Name, item.Price))
		}
		r.AddMenuItem(&item)
	}
	for i := range s.Servers {
		sv := s.Servers[i]
		r.AddServer(&sv)
	}
	for _, rec := range s.Tables {
		t, err := restoreTable(r, rec)
		if err != nil {
			return nil, err
		}
		if err := r.AddTable(t); err != nil {
			return nil, loadErr("corrupt snapshot", err)
		}
	}
	return r, nil
}

func restoreTable(r *models.Restaurant, rec tableRecord) (*models.Table, error) {
	t := models.NewTable(rec.Number)
	if rec.ServerID != nil {
		if _, ok := r.Servers.Get(*rec.ServerID); !ok {
			return nil, loadErr("corrupt snapshot", fmt.Errorf("table %d references unknown server %s", rec.Number, rec.ServerID))
		}
		t.ServerID = *rec.ServerID
	}
	t.SeatingTime = rec.SeatingTime
	switch rec.Status {
	case models.TableEmpty, models.TableSeated, models.TableServed:
		t.Status = rec.Status
	case "":
		if rec.SeatingTime != nil {
			t.Status = models.TableSeated
		}
	default:
		return nil, loadErr("corrupt snapshot", fmt.Errorf("table %d has unknown status %q", rec.Number, rec.Status))
	}
	for _, it := range rec.Items {
		if it.Price.IsNegative() {
			return nil, loadErr("corrupt snapshot", fmt.Errorf("table %d order has negative price", rec.Number))
		}
		t.Order.AddItem(it)
	}
	if !t.Order.TotalCost().Equal(rec.Total) {
		return nil, loadErr("corrupt snapshot", fmt.Errorf("table %d total %s does not match items %s", rec.Number, rec.Total, t.Order.TotalCost()))
	}
	return t, nil
}

// IsNotFound reports whether err means there was nothing to load.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSnapshot)
}
