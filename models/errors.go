package models

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNotSeated      = errors.New("table has no seating time")
	ErrDuplicateTable = errors.New("table number already exists")
)
