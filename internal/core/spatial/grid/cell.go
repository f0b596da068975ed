package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/broadphase/pkg/generic"
)

// Cell is the integer key of one cubic grid cell.
type Cell struct {
	X, Y, Z int
}

// Offset returns the cell dx, dy, dz steps away, clamped to the int range.
func (c Cell) Offset(dx, dy, dz int) Cell {
	return Cell{
		X: generic.SaturatingAdd(c.X, dx),
		Y: generic.SaturatingAdd(c.Y, dy),
		Z: generic.SaturatingAdd(c.Z, dz),
	}
}

// floorDiv divides rounding toward negative infinity, so -1 / 10 lands in cell -1, not 0.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func cellOf(x, y, z, size int) Cell {
	return Cell{
		X: floorDiv(x, size),
		Y: floorDiv(y, size),
		Z: floorDiv(z, size),
	}
}

// cellOfVec saturates components beyond the int range into the outermost
// cells; NaN maps to cell 0.
func cellOfVec(v r3.Vec, size int) Cell {
	s := float64(size)
	return Cell{
		X: floorToInt(v.X / s),
		Y: floorToInt(v.Y / s),
		Z: floorToInt(v.Z / s),
	}
}

func floorToInt(f float64) int {
	f = math.Floor(f)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}
