package geom

import "errors"

// ErrShortRing is returned when a ring has fewer than three distinct points
// after normalisation.
var ErrShortRing = errors.New("ring has fewer than 3 points")

// SignedArea is the shoelace area of the ring in lon/lat units; positive for
// counter-clockwise winding.
func (b Boundary) SignedArea() float64 {
	var a float64
	for i := range b {
		p := b[i]
		q := b[(i+1)%len(b)]
		a += p.Lon*q.Lat - q.Lon*p.Lat
	}
	return a / 2
}

// normalizeRing converts a [lon, lat] ring into a Boundary that meets the
// triangulation precondition: no repeated closing point, no consecutive
// duplicates and counter-clockwise winding.
func normalizeRing(ring [][2]float64) (Boundary, error) {
	b := make(Boundary, 0, len(ring))
	for _, p := range ring {
		n := Node{Lon: p[0], Lat: p[1]}
		if len(b) > 0 && b[len(b)-1] == n {
			continue
		}
		b = append(b, n)
	}
	if len(b) > 1 && b[0] == b[len(b)-1] {
		b = b[:len(b)-1]
	}
	if len(b) < 3 {
		return nil, ErrShortRing
	}
	if b.SignedArea() < 0 {
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}
	return b, nil
}
