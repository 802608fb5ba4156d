package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPolygon is returned for boundaries with fewer than 3 points.
	ErrInvalidPolygon = errors.New("invalid polygon")
	// ErrIndexOutOfRange is returned when an edge or triangle references a
	// node that does not exist.
	ErrIndexOutOfRange = errors.New("node index out of range")
	// ErrTriangulationStalled is returned when ear clipping cannot find an
	// ear in a full pass over the remaining ring.
	ErrTriangulationStalled = errors.New("triangulation stalled")
)

// IndexOutOfRangeError identifies the offending record.
type IndexOutOfRangeError struct {
	Kind  string // "edge" or "triangle"
	Item  int    // position of the record in its input list
	Index uint32 // the bad node index
	Nodes int    // number of nodes available
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d references node %d, but there are only %d nodes", e.Kind, e.Item, e.Index, e.Nodes)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// TriangulationError is returned when the boundary violates the simple CCW
// precondition badly enough that no ear can be found.
type TriangulationError struct {
	Points    int // boundary size
	Remaining int // vertices left in the ring when clipping stopped
	Emitted   int // triangles produced before stopping
}

func (e *TriangulationError) Error() string {
	return fmt.Sprintf("no ear found among %d remaining vertices of a %d-point boundary (%d triangles emitted); boundary is not simple or not counter-clockwise",
		e.Remaining, e.Points, e.Emitted)
}

func (e *TriangulationError) Unwrap() error { return ErrTriangulationStalled }
