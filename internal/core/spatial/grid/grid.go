// Package grid implements a bucketed spatial hash over cubic cells.
//
// Positions are quantized by floor division with the grid's cell size, so
// cell boundaries are consistent on both sides of the origin: with a cell
// size of 10, x = -1 maps to cell -1 and x = 9 maps to cell 0.
//
// A Grid is not safe for concurrent use. Callers sharing one across
// goroutines must guard every Insert/Erase/Find sequence with their own lock.
package grid

import (
	"fmt"
	"iter"

	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/pkg/generic"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid maps cells to the set of elements registered in them.
// Empty buckets are pruned, so a bucket exists only while it holds elements.
type Grid[T comparable] struct {
	cellSize int
	cells    map[Cell]generic.Set[T]
	logger   log.Log
}

type config struct {
	logger log.Log
}

type Option func(*config)

// WithLogger attaches a logger for configuration and misuse diagnostics.
func WithLogger(logger log.Log) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates an empty grid. It fails with ErrInvalidCellSize when cellSize <= 0.
func New[T comparable](cellSize int, opts ...Option) (*Grid[T], error) {
	cfg := config{logger: log.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Grid[T]{logger: cfg.logger}
	if err := g.Configure(cellSize); err != nil {
		return nil, err
	}
	return g, nil
}

// Configure discards all contents and switches to a new cell size.
// On error the grid is left untouched.
func (g *Grid[T]) Configure(cellSize int) error {
	if cellSize <= 0 {
		g.logger.Warn("rejected grid cell size", log.Int("cell_size", cellSize))
		return fmt.Errorf("%w: got %d", ErrInvalidCellSize, cellSize)
	}

	dropped := len(g.cells)
	g.cellSize = cellSize
	g.cells = make(map[Cell]generic.Set[T])
	g.logger.Debug("grid configured", log.Int("cell_size", cellSize), log.Int("dropped_cells", dropped))
	return nil
}

// Reset empties the grid while keeping its cell size.
func (g *Grid[T]) Reset() {
	clear(g.cells)
}

// CellSize returns the edge length of a cell.
func (g *Grid[T]) CellSize() int {
	return g.cellSize
}

// Len returns the number of occupied cells.
func (g *Grid[T]) Len() int {
	return len(g.cells)
}

// CellOf returns the cell containing the integer position.
func (g *Grid[T]) CellOf(x, y, z int) Cell {
	return cellOf(x, y, z, g.cellSize)
}

// CellOfVec returns the cell containing the continuous position.
func (g *Grid[T]) CellOfVec(v r3.Vec) Cell {
	return cellOfVec(v, g.cellSize)
}

// Insert adds elem to the cell containing (x, y, z). Inserting twice is a no-op.
func (g *Grid[T]) Insert(elem T, x, y, z int) {
	g.insertCell(elem, g.CellOf(x, y, z))
}

// InsertVec adds elem to the cell containing v.
func (g *Grid[T]) InsertVec(elem T, v r3.Vec) {
	g.insertCell(elem, g.CellOfVec(v))
}

// Erase removes elem from the cell containing (x, y, z) if it is there.
func (g *Grid[T]) Erase(elem T, x, y, z int) {
	g.eraseCell(elem, g.CellOf(x, y, z))
}

// EraseVec removes elem from the cell containing v.
func (g *Grid[T]) EraseVec(elem T, v r3.Vec) {
	g.eraseCell(elem, g.CellOfVec(v))
}

// Move relocates elem from one position to another. Nothing changes when
// both positions fall in the same cell.
func (g *Grid[T]) Move(elem T, from, to [3]int) {
	src, dst := g.CellOf(from[0], from[1], from[2]), g.CellOf(to[0], to[1], to[2])
	if src == dst {
		return
	}
	g.eraseCell(elem, src)
	g.insertCell(elem, dst)
}

// MoveVec is Move for continuous positions.
func (g *Grid[T]) MoveVec(elem T, from, to r3.Vec) {
	src, dst := g.CellOfVec(from), g.CellOfVec(to)
	if src == dst {
		return
	}
	g.eraseCell(elem, src)
	g.insertCell(elem, dst)
}

// Clear empties the single cell containing (x, y, z).
func (g *Grid[T]) Clear(x, y, z int) {
	delete(g.cells, g.CellOf(x, y, z))
}

// Find looks up the cell containing (x, y, z).
func (g *Grid[T]) Find(x, y, z int) Lookup[T] {
	return g.lookup(g.CellOf(x, y, z))
}

// FindVec looks up the cell containing v.
func (g *Grid[T]) FindVec(v r3.Vec) Lookup[T] {
	return g.lookup(g.CellOfVec(v))
}

// FindCell looks up a cell by key.
func (g *Grid[T]) FindCell(c Cell) Lookup[T] {
	return g.lookup(c)
}

// Size returns the number of elements in the cell containing (x, y, z).
func (g *Grid[T]) Size(x, y, z int) int {
	return len(g.cells[g.CellOf(x, y, z)])
}

// Count returns 1 when elem is registered in the cell containing (x, y, z), 0 otherwise.
func (g *Grid[T]) Count(elem T, x, y, z int) int {
	if g.cells[g.CellOf(x, y, z)].Has(elem) {
		return 1
	}
	return 0
}

// Around returns the union of the cells within rings steps of the cell
// containing (x, y, z) on every axis. rings == 0 is the cell itself; a
// negative value yields an empty set.
func (g *Grid[T]) Around(x, y, z, rings int) generic.Set[T] {
	if rings < 0 {
		return generic.Set[T]{}
	}
	c := g.CellOf(x, y, z)
	return g.Range(c.Offset(-rings, -rings, -rings), c.Offset(rings, rings, rings))
}

// RangeVec returns the union of every cell overlapping the box.
func (g *Grid[T]) RangeVec(box r3.Box) generic.Set[T] {
	return g.Range(g.CellOfVec(box.Min), g.CellOfVec(box.Max))
}

// Range returns the union of every cell between lo and hi inclusive. Boxes
// with more cells than the grid holds are answered by scanning occupied cells.
func (g *Grid[T]) Range(lo, hi Cell) generic.Set[T] {
	out := make(generic.Set[T])
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return out
	}

	if !spanAtMost(lo, hi, len(g.cells)) {
		for c, bucket := range g.cells {
			if c.X >= lo.X && c.X <= hi.X && c.Y >= lo.Y && c.Y <= hi.Y && c.Z >= lo.Z && c.Z <= hi.Z {
				out.Merge(bucket)
			}
		}
		return out
	}

	for cx := range generic.Span(lo.X, hi.X) {
		for cy := range generic.Span(lo.Y, hi.Y) {
			for cz := range generic.Span(lo.Z, hi.Z) {
				out.Merge(g.cells[Cell{X: cx, Y: cy, Z: cz}])
			}
		}
	}
	return out
}

// Cells iterates the occupied cells in unspecified order. The yielded sets
// alias the grid's buckets and must not be modified.
func (g *Grid[T]) Cells() iter.Seq2[Cell, generic.Set[T]] {
	return func(yield func(Cell, generic.Set[T]) bool) {
		for c, bucket := range g.cells {
			if !yield(c, bucket) {
				return
			}
		}
	}
}

// Stats summarizes occupancy.
type Stats struct {
	Cells   int
	Entries int
	Largest int
}

func (g *Grid[T]) Stats() Stats {
	s := Stats{Cells: len(g.cells)}
	for _, bucket := range g.cells {
		s.Entries += len(bucket)
		s.Largest = max(s.Largest, len(bucket))
	}
	return s
}

// spanAtMost reports whether the box lo..hi covers at most limit cells.
func spanAtMost(lo, hi Cell, limit int) bool {
	bound := uint64(max(limit, 0))
	n := uint64(1)
	for _, d := range [3]uint64{
		generic.SpanLen(lo.X, hi.X),
		generic.SpanLen(lo.Y, hi.Y),
		generic.SpanLen(lo.Z, hi.Z),
	} {
		if d == 0 {
			return true
		}
		if d > bound || n > bound/d {
			return false
		}
		n *= d
	}
	return true
}

func (g *Grid[T]) insertCell(elem T, c Cell) {
	bucket, ok := g.cells[c]
	if !ok {
		bucket = make(generic.Set[T], 1)
		g.cells[c] = bucket
	}
	bucket.Add(elem)
}

func (g *Grid[T]) eraseCell(elem T, c Cell) {
	bucket, ok := g.cells[c]
	if !ok {
		return
	}
	if bucket.Remove(elem) && len(bucket) == 0 {
		delete(g.cells, c)
	}
}

func (g *Grid[T]) lookup(c Cell) Lookup[T] {
	bucket, ok := g.cells[c]
	return Lookup[T]{cell: c, bucket: bucket, ok: ok, logger: g.logger}
}
