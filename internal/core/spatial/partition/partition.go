// Package partition tracks entity positions on top of a cell grid and answers
// the region queries a physics tick needs before narrow-phase testing.
package partition

import (
	"fmt"

	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/core/spatial/grid"
	"github.com/zeusync/broadphase/internal/core/systems/physics"
	"github.com/zeusync/broadphase/pkg/generic"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ SpatialPartition[uint64] = (*Partition[uint64])(nil)

// Partition keeps each entity in the grid cell of its last known position.
// It is not safe for concurrent use.
type Partition[T comparable] struct {
	grid      *grid.Grid[T]
	positions map[T]r3.Vec
	logger    log.Log

	queries uint64
	updates uint64
}

// New creates a partition whose grid uses cells of cellSize units.
func New[T comparable](cellSize int, logger log.Log) (*Partition[T], error) {
	if logger == nil {
		logger = log.Nop()
	}
	g, err := grid.New[T](cellSize, grid.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("partition grid: %w", err)
	}
	return &Partition[T]{
		grid:      g,
		positions: make(map[T]r3.Vec),
		logger:    logger,
	}, nil
}

func (p *Partition[T]) Insert(id T, pos r3.Vec) error {
	if !physics.Finite(pos) {
		return ErrInvalidPosition
	}
	if _, ok := p.positions[id]; ok {
		return ErrAlreadyTracked
	}
	p.positions[id] = pos
	p.grid.InsertVec(id, pos)
	p.updates++
	return nil
}

func (p *Partition[T]) Remove(id T) error {
	pos, ok := p.positions[id]
	if !ok {
		return ErrNotTracked
	}
	p.grid.EraseVec(id, pos)
	delete(p.positions, id)
	p.updates++
	return nil
}

// Update moves a tracked entity, erasing it at its old cell before
// inserting it at the new one.
func (p *Partition[T]) Update(id T, pos r3.Vec) error {
	if !physics.Finite(pos) {
		return ErrInvalidPosition
	}
	old, ok := p.positions[id]
	if !ok {
		return ErrNotTracked
	}
	p.grid.MoveVec(id, old, pos)
	p.positions[id] = pos
	p.updates++
	return nil
}

// Sync inserts or updates every body from its current transform.
// It stops at the first invalid position.
func (p *Partition[T]) Sync(bodies ...physics.Body[T]) error {
	for _, b := range bodies {
		var err error
		if _, ok := p.positions[b.ID()]; ok {
			err = p.Update(b.ID(), b.Position())
		} else {
			err = p.Insert(b.ID(), b.Position())
		}
		if err != nil {
			p.logger.Warn("body rejected by partition", log.Any("id", b.ID()), log.Error(err))
			return fmt.Errorf("sync %v: %w", b.ID(), err)
		}
	}
	return nil
}

// Position returns the last position recorded for id.
func (p *Partition[T]) Position(id T) (r3.Vec, bool) {
	pos, ok := p.positions[id]
	return pos, ok
}

func (p *Partition[T]) Len() int {
	return len(p.positions)
}

// QueryBounds returns the entities whose position lies inside the closed box.
func (p *Partition[T]) QueryBounds(box r3.Box) generic.Set[T] {
	p.queries++
	if !physics.Finite(box.Min) || !physics.Finite(box.Max) {
		return p.scan(func(pos r3.Vec) bool { return physics.Contains(box, pos) })
	}
	out := p.grid.RangeVec(box)
	for id := range out {
		if !physics.Contains(box, p.positions[id]) {
			delete(out, id)
		}
	}
	return out
}

// QueryRadius returns the entities within radius of center.
func (p *Partition[T]) QueryRadius(center r3.Vec, radius float64) generic.Set[T] {
	if radius < 0 {
		return generic.Set[T]{}
	}
	p.queries++
	within := func(pos r3.Vec) bool { return r3.Norm(r3.Sub(pos, center)) <= radius }
	box := physics.Bounds(center, radius)
	if !physics.Finite(box.Min) || !physics.Finite(box.Max) {
		return p.scan(within)
	}
	out := p.grid.RangeVec(box)
	for id := range out {
		if !within(p.positions[id]) {
			delete(out, id)
		}
	}
	return out
}

// Neighbors returns the entities within rings cells of id's cell, excluding id.
func (p *Partition[T]) Neighbors(id T, rings int) (generic.Set[T], error) {
	pos, ok := p.positions[id]
	if !ok {
		return nil, ErrNotTracked
	}
	p.queries++
	c := p.grid.CellOfVec(pos)
	out := p.grid.Range(c.Offset(-rings, -rings, -rings), c.Offset(rings, rings, rings))
	out.Remove(id)
	return out, nil
}

// Pairs returns every candidate pair of entities sharing a cell.
func (p *Partition[T]) Pairs() []Pair[T] {
	p.queries++
	var pairs []Pair[T]
	for _, bucket := range p.grid.Cells() {
		members := bucket.Items()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				pairs = append(pairs, Pair[T]{A: members[i], B: members[j]})
			}
		}
	}
	return pairs
}

// scan filters every tracked position; used when a query region cannot be mapped to cells.
func (p *Partition[T]) scan(keep func(r3.Vec) bool) generic.Set[T] {
	out := make(generic.Set[T])
	for id, pos := range p.positions {
		if keep(pos) {
			out.Add(id)
		}
	}
	return out
}

func (p *Partition[T]) Clear() {
	p.grid.Reset()
	clear(p.positions)
}

func (p *Partition[T]) Statistics() Statistics {
	s := p.grid.Stats()
	return Statistics{
		EntityCount: uint64(len(p.positions)),
		CellCount:   uint64(s.Cells),
		LargestCell: uint64(s.Largest),
		Queries:     p.queries,
		Updates:     p.updates,
	}
}
