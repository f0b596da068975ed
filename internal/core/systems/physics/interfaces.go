package physics

import "gonum.org/v1/gonum/spatial/r3"

// Transform exposes the position the broad phase indexes a body at.
// Orientation and extent are left to the narrow phase.
type Transform interface {
	Position() r3.Vec
}

// Body is a tracked object with a stable identifier.
type Body[ID comparable] interface {
	Transform
	ID() ID
}
