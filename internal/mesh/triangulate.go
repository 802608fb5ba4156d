package mesh

import (
	"fmt"

	"geomesh/internal/geom"
)

type Point struct {
	X, Y float64
}

func (p Point) sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// cross is rotate90(a)·b, positive when b points to the left of a.
func cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

// leftOf reports whether v lies strictly left of the directed line a->b.
func leftOf(v, a, b Point) bool {
	return cross(b.sub(a), v.sub(a)) > 0
}

// sameSide reports whether p1 and p2 are on the same side of a->b, counting
// points on the line as both sides.
func sameSide(p1, p2, a, b Point) bool {
	d := b.sub(a)
	return cross(d, p1.sub(a))*cross(d, p2.sub(a)) >= 0
}

// inTriangle is inclusive: points on an edge or corner are inside.
func inTriangle(v, a, b, c Point) bool {
	return sameSide(v, a, b, c) && sameSide(v, b, c, a) && sameSide(v, c, a, b)
}

// ring is a circular doubly linked list over boundary positions.
type ring struct {
	next []int
	prev []int
	size int
}

func newRing(n int) *ring {
	r := &ring{next: make([]int, n), prev: make([]int, n), size: n}
	for i := 0; i < n; i++ {
		r.next[i] = (i + 1) % n
		r.prev[i] = (i + n - 1) % n
	}
	return r
}

func (r *ring) remove(i int) {
	p, n := r.prev[i], r.next[i]
	r.next[p] = n
	r.prev[n] = p
	r.size--
}

// Triangulate computes an ear clipping triangulation of a simple polygon given
// by its counter-clockwise boundary. The boundary is implicitly closed and must
// not repeat its first point at the end. The result holds exactly len(boundary)-2
// triangles whose entries index into boundary.
//
// A window (pre, cur, nex) walks the ring. cur is clipped when it is convex and
// no other remaining vertex lies inside or on the triangle; otherwise the
// window advances by one. A whole revolution without a clip means the
// precondition does not hold and a *TriangulationError is returned.
func Triangulate(boundary []Point) ([][3]uint32, error) {
	n := len(boundary)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d points, need at least 3", ErrInvalidPolygon, n)
	}

	r := newRing(n)
	tris := make([][3]uint32, 0, n-2)
	pre := 0
	misses := 0
	for r.size > 2 {
		cur := r.next[pre]
		nex := r.next[cur]
		if isEar(boundary, r, pre, cur, nex) {
			tris = append(tris, [3]uint32{uint32(pre), uint32(cur), uint32(nex)})
			r.remove(cur)
			misses = 0
			continue
		}
		pre = cur
		misses++
		if misses >= r.size {
			return nil, &TriangulationError{Points: n, Remaining: r.size, Emitted: len(tris)}
		}
	}
	return tris, nil
}

func isEar(pts []Point, r *ring, pre, cur, nex int) bool {
	a, b, c := pts[pre], pts[cur], pts[nex]
	if !leftOf(c, a, b) {
		return false
	}
	for v := r.next[nex]; v != pre; v = r.next[v] {
		if inTriangle(pts[v], a, b, c) {
			return false
		}
	}
	return true
}

// TriangulateBoundary triangulates a geo boundary using longitude as x and
// latitude as y.
func TriangulateBoundary(b geom.Boundary) ([][3]uint32, error) {
	pts := make([]Point, len(b))
	for i, n := range b {
		pts[i] = Point{X: n.Lon, Y: n.Lat}
	}
	return Triangulate(pts)
}
