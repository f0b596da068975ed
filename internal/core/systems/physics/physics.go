package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Simple concrete implementations for convenience.

type Transform3D struct{ Pos r3.Vec }

func (t Transform3D) Position() r3.Vec { return t.Pos }

// Point is a body without extent.
type Point[ID comparable] struct {
	Key ID
	Pos r3.Vec
}

func (p Point[ID]) ID() ID           { return p.Key }
func (p Point[ID]) Position() r3.Vec { return p.Pos }

// Distance computes the Euclidean distance between two transforms.
func Distance(a, b Transform) float64 { return r3.Norm(r3.Sub(b.Position(), a.Position())) }

// Finite reports whether every component of v is a real number.
func Finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Contains reports whether p lies inside the closed box.
func Contains(box r3.Box, p r3.Vec) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}

// Bounds returns the axis-aligned box enclosing a sphere.
func Bounds(center r3.Vec, radius float64) r3.Box {
	ext := r3.Vec{X: radius, Y: radius, Z: radius}
	return r3.Box{Min: r3.Sub(center, ext), Max: r3.Add(center, ext)}
}
