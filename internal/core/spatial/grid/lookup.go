package grid

import (
	"fmt"

	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/pkg/generic"
)

// Lookup is the result of Grid.Find. The zero value is a miss.
//
// A successful Lookup aliases the live bucket: a later Insert, Erase or Clear
// on the same cell is visible through it, and once the bucket is pruned the
// Lookup keeps pointing at the detached set. Call Find again after mutating.
type Lookup[T comparable] struct {
	cell   Cell
	bucket generic.Set[T]
	ok     bool
	logger log.Log
}

// OK reports whether the cell had a bucket.
func (l Lookup[T]) OK() bool {
	return l.ok
}

// Cell returns the key that was looked up.
func (l Lookup[T]) Cell() Cell {
	return l.cell
}

// Found returns the bucket of a successful lookup, or ErrNoActiveCursor.
func (l Lookup[T]) Found() (generic.Set[T], error) {
	if !l.ok {
		if l.logger != nil {
			l.logger.Warn("found called without an active lookup",
				log.Cell("cell", l.cell.X, l.cell.Y, l.cell.Z))
		}
		return nil, fmt.Errorf("%w: cell %d,%d,%d", ErrNoActiveCursor, l.cell.X, l.cell.Y, l.cell.Z)
	}
	return l.bucket, nil
}

// Size returns the bucket size, or 0 on a miss.
func (l Lookup[T]) Size() int {
	return len(l.bucket)
}

// Has reports whether elem is in the bucket.
func (l Lookup[T]) Has(elem T) bool {
	return l.bucket.Has(elem)
}
