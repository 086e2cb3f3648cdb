package neighbor

import "errors"

var (
	// ErrNeighborNotFound indicates the neighbor doesn't exist.
	ErrNeighborNotFound = errors.New("neighbor not found")
	// ErrInvalidInput indicates invalid neighbor fields.
	ErrInvalidInput = errors.New("invalid neighbor input")
	// ErrInvalidStatus indicates a status outside NEW, ACTIVE and AWAY.
	ErrInvalidStatus = errors.New("invalid neighbor status")
)
