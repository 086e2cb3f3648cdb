package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert collides with an existing id
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrInvalidInput is returned when a stored value fails a schema constraint
	ErrInvalidInput = errors.New("invalid input")
)
