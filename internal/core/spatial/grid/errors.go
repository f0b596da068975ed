package grid

import "errors"

var (
	// ErrInvalidCellSize is returned when a grid is configured with a cell size <= 0.
	ErrInvalidCellSize = errors.New("cell size must be positive")
	// ErrNoActiveCursor is returned by Lookup.Found when the lookup did not find a bucket.
	ErrNoActiveCursor = errors.New("no active lookup: find did not locate a cell")
)
