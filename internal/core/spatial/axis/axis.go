// Package axis keeps per-axis buckets of elements, one bucket per exact
// integer coordinate on X, Y and Z. Nearby combines the three axes the way a
// separating-axis broad phase does: an element is a candidate only when its
// projection is close to the query on every axis.
package axis

import (
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/pkg/generic"
)

// Axis selects one of the three coordinate mappings.
type Axis uint8

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return "?"
	}
}

// Coord is one insertion position.
type Coord struct {
	X, Y, Z int
}

func (c Coord) on(a Axis) int {
	switch a {
	case Y:
		return c.Y
	case Z:
		return c.Z
	default:
		return c.X
	}
}

type config struct {
	logger log.Log
}

type Option func(*config)

func WithLogger(logger log.Log) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Index maps axis coordinates to element sets.
//
// Erase is keyed by value: it must be given the coordinates used by Insert,
// otherwise stale entries stay behind. Remove avoids that by replaying every
// placement recorded for the element. Index is not safe for concurrent use.
type Index[T comparable] struct {
	axes       [3]map[int]generic.Set[T]
	placements map[T]generic.Set[Coord]
	scratch    *generic.Pool[generic.Set[T]]
	logger     log.Log
}

func New[T comparable](opts ...Option) *Index[T] {
	cfg := config{logger: log.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	idx := &Index[T]{
		placements: make(map[T]generic.Set[Coord]),
		scratch:    generic.NewSetPool[T](16),
		logger:     cfg.logger,
	}
	for a := range idx.axes {
		idx.axes[a] = make(map[int]generic.Set[T])
	}
	return idx
}

// Insert registers elem in the X bucket x, the Y bucket y and the Z bucket z.
func (idx *Index[T]) Insert(elem T, x, y, z int) {
	c := Coord{X: x, Y: y, Z: z}
	for a := X; a <= Z; a++ {
		bucket, ok := idx.axes[a][c.on(a)]
		if !ok {
			bucket = make(generic.Set[T], 1)
			idx.axes[a][c.on(a)] = bucket
		}
		bucket.Add(elem)
	}

	placed, ok := idx.placements[elem]
	if !ok {
		placed = make(generic.Set[Coord], 1)
		idx.placements[elem] = placed
	}
	placed.Add(c)
}

// Erase removes elem from the buckets addressed by (x, y, z).
func (idx *Index[T]) Erase(elem T, x, y, z int) {
	c := Coord{X: x, Y: y, Z: z}
	idx.erase(elem, c)

	placed := idx.placements[elem]
	if !placed.Remove(c) {
		idx.logger.Debug("erase did not match a recorded placement", log.Cell("coord", x, y, z))
		return
	}
	if placed.Len() == 0 {
		delete(idx.placements, elem)
	}
}

// Remove erases elem at every position it was inserted at and reports
// whether it was tracked.
func (idx *Index[T]) Remove(elem T) bool {
	placed, ok := idx.placements[elem]
	if !ok {
		return false
	}
	for c := range placed {
		idx.erase(elem, c)
	}
	delete(idx.placements, elem)
	return true
}

// Contains reports whether elem has at least one live placement.
func (idx *Index[T]) Contains(elem T) bool {
	_, ok := idx.placements[elem]
	return ok
}

// Placements returns the recorded insertion positions of elem.
func (idx *Index[T]) Placements(elem T) []Coord {
	return idx.placements[elem].Items()
}

// Len returns the number of tracked elements.
func (idx *Index[T]) Len() int {
	return len(idx.placements)
}

// Bucket returns the elements whose projection on a equals coord.
// The result aliases internal state and must not be modified.
func (idx *Index[T]) Bucket(a Axis, coord int) generic.Set[T] {
	if a > Z {
		return nil
	}
	return idx.axes[a][coord]
}

// Reset drops every bucket and placement.
func (idx *Index[T]) Reset() {
	for a := range idx.axes {
		clear(idx.axes[a])
	}
	clear(idx.placements)
}

// Nearby returns the elements whose coordinate on each axis lies within
// radius of the query coordinate on that axis. A negative radius yields an
// empty set.
func (idx *Index[T]) Nearby(x, y, z, radius int) generic.Set[T] {
	if radius < 0 {
		return generic.Set[T]{}
	}

	query := Coord{X: x, Y: y, Z: z}
	var candidates [3]generic.Set[T]
	for a := X; a <= Z; a++ {
		candidates[a] = idx.scratch.Get()
		defer idx.scratch.Put(candidates[a])

		idx.collect(a, query.on(a), radius, candidates[a])
		if candidates[a].Len() == 0 {
			return generic.Set[T]{}
		}
	}
	return generic.Intersect(candidates[:]...)
}

// collect unions every bucket on axis a keyed within [c-radius, c+radius] into out.
// The window is clamped to the int range.
func (idx *Index[T]) collect(a Axis, c, radius int, out generic.Set[T]) {
	buckets := idx.axes[a]
	lo, hi := generic.Window(c, radius)
	if generic.SpanLen(lo, hi) <= uint64(len(buckets)) {
		for k := range generic.Span(lo, hi) {
			out.Merge(buckets[k])
		}
		return
	}
	for k, bucket := range buckets {
		if k >= lo && k <= hi {
			out.Merge(bucket)
		}
	}
}

func (idx *Index[T]) erase(elem T, c Coord) {
	for a := X; a <= Z; a++ {
		bucket, ok := idx.axes[a][c.on(a)]
		if !ok {
			continue
		}
		if bucket.Remove(elem) && bucket.Len() == 0 {
			delete(idx.axes[a], c.on(a))
		}
	}
}
