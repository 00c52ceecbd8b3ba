package models

import (
	"time"

	"github.com/google/uuid"
)

// Table is a seating unit. ServerID is a handle into the ServerRegistry;
// uuid.Nil means no server is assigned.
type Table struct {
	Number      int
	ServerID    uuid.UUID
	Order       *Order
	SeatingTime *time.Time
	Status      TableStatus
}

func NewTable(number int) *Table {
	return &Table{
		Number: number,
		Order:  NewOrder(),
		Status: TableEmpty,
	}
}

func (t *Table) HasServer() bool { return t.ServerID != uuid.Nil }

// Seat records when guests sat down. Seating again overwrites the time.
func (t *Table) Seat(now time.Time) {
	t.SeatingTime = &now
	t.Status = TableSeated
}

// SeatingDuration returns whole minutes since seating, or ErrNotSeated when
// no seating time has been recorded.
func (t *Table) SeatingDuration(now time.Time) (int, error) {
	if t.SeatingTime == nil {
		return 0, ErrNotSeated
	}
	return int(now.Sub(*t.SeatingTime) / time.Minute), nil
}
