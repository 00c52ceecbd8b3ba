package statemachine

import (
	"errors"
	"strings"

	"orderease/models"
)

// Transition defines a valid table state change and who can perform it
type Transition struct {
	From  models.TableStatus `json:"from"`
	To    models.TableStatus `json:"to"`
	Actor models.Role        `json:"actor"`
}

// validTransitions is the authoritative table lifecycle definition.
// Seating time is never cleared, so no transition leads back to EMPTY.
var validTransitions = []Transition{
	// Guests sit down, or a server seats them
	{From: models.TableEmpty, To: models.TableSeated, Actor: models.RoleGuest},
	{From: models.TableEmpty, To: models.TableSeated, Actor: models.RoleServer},
	// Server brings the food; the order is cleared
	{From: models.TableSeated, To: models.TableServed, Actor: models.RoleServer},
	// Guests order again after being served
	{From: models.TableServed, To: models.TableSeated, Actor: models.RoleGuest},
	// Server re-seats a served table for a new party
	{From: models.TableServed, To: models.TableSeated, Actor: models.RoleServer},
}

type transitionKey struct {
	From  models.TableStatus
	To    models.TableStatus
	Actor models.Role
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ErrInvalidTransition is wrapped by every CanTransition failure.
var ErrInvalidTransition = errors.New("invalid transition")

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.TableStatus) []models.TableStatus {
	var nexts []models.TableStatus
	seen := map[models.TableStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move a table from one state to another
func CanTransition(from, to models.TableStatus, actor models.Role) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

// TransitionError describes a rejected transition.
type TransitionError struct {
	From  models.TableStatus
	To    models.TableStatus
	Actor models.Role
}

func (e *TransitionError) Error() string {
	return "invalid transition: " + string(e.From) + " -> " + string(e.To) +
		" is not allowed for actor '" + string(e.Actor) + "'. " +
		"Valid transitions from " + string(e.From) + " are: " + describeValidFrom(e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func describeValidFrom(status models.TableStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
