// Package notify tells servers about guest activity at their tables.
package notify

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type EventKind string

const (
	EventNewOrder     EventKind = "new_order"
	EventCall         EventKind = "call"
	EventCheckRequest EventKind = "check_request"
)

// Event is keyed by table and kind. ServerName is the server being notified.
type Event struct {
	Kind        EventKind `json:"kind"`
	TableNumber int       `json:"table_number"`
	ServerName  string    `json:"server_name"`
	At          time.Time `json:"at"`
}

// Sink delivers events. Delivery is best effort.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// Message renders the event the way a server would read it.
func (e Event) Message() string {
	switch e.Kind {
	case EventNewOrder:
		return "Server " + e.ServerName + " notified of new order for Table " + strconv.Itoa(e.TableNumber)
	case EventCall:
		return "Server " + e.ServerName + " notified of call from Table " + strconv.Itoa(e.TableNumber)
	case EventCheckRequest:
		return "Server " + e.ServerName + " notified of check request from Table " + strconv.Itoa(e.TableNumber)
	default:
		return "Server " + e.ServerName + " notified of " + string(e.Kind) + " from Table " + strconv.Itoa(e.TableNumber)
	}
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
