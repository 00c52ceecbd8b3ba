// Package store saves and restores a whole models.Restaurant.
//
// Every backend goes through the same snapshot validation, so a load either
// returns a complete restaurant or an error and never a partial one.
package store

import (
	"context"
	"errors"

	"orderease/models"
)

// Store persists restaurant state.
type Store interface {
	Save(ctx context.Context, r *models.Restaurant) error
	Load(ctx context.Context) (*models.Restaurant, error)
	Close() error
}

var (
	// ErrPersistence matches every error returned by this package.
	ErrPersistence = errors.New("persistence failure")
	// ErrNoSnapshot means nothing has been saved yet.
	ErrNoSnapshot = errors.New("no saved restaurant state")
)

// Error describes a failed save or load.
type Error struct {
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := "store: " + e.Op + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

func loadErr(reason string, err error) error {
	return &Error{Op: "load", Reason: reason, Err: err}
}

func saveErr(reason string, err error) error {
	return &Error{Op: "save", Reason: reason, Err: err}
}
