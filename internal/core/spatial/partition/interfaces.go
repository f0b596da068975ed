package partition

import (
	"github.com/zeusync/broadphase/pkg/generic"
	"gonum.org/v1/gonum/spatial/r3"
)

// SpatialPartition provides broad-phase spatial queries for a physics system.
// Implementations remember the last position of every entity, so callers
// never have to replay old coordinates on removal.
type SpatialPartition[T comparable] interface {
	Insert(id T, pos r3.Vec) error
	Remove(id T) error
	Update(id T, pos r3.Vec) error

	QueryRadius(center r3.Vec, radius float64) generic.Set[T]
	QueryBounds(box r3.Box) generic.Set[T]
	Pairs() []Pair[T]

	Clear()
	Statistics() Statistics
}

// Pair is an unordered candidate pair for narrow-phase testing.
type Pair[T comparable] struct {
	A, B T
}

// Statistics provides information about partition occupancy and traffic.
type Statistics struct {
	EntityCount uint64
	CellCount   uint64
	LargestCell uint64
	Queries     uint64
	Updates     uint64
}
