package mesh

import "geomesh/internal/geom"

// DefaultFill is the fill id used for polygons without a valid fill.
const DefaultFill = -1

// PolygonSet accumulates triangulated polygons into one shared vertex buffer
// and one triangle index buffer.
type PolygonSet struct {
	// Vertices holds lon, lat pairs for every boundary point of every polygon.
	Vertices []float32
	// Indices holds triangle triples already rebased into Vertices.
	Indices []uint32
	// IndexOffsets starts with 0 and gains one entry per polygon; polygon i
	// spans Indices[IndexOffsets[i]:IndexOffsets[i+1]].
	IndexOffsets []uint32
	FillIDs      []int
}

func NewPolygonSet() *PolygonSet {
	return &PolygonSet{IndexOffsets: []uint32{0}}
}

// seedOffsets seeds the leading offset, making the zero value usable.
func (s *PolygonSet) seedOffsets() {
	if len(s.IndexOffsets) == 0 {
		s.IndexOffsets = []uint32{0}
	}
}

// Add triangulates b and appends it. On error the set is left unchanged.
func (s *PolygonSet) Add(b geom.Boundary, fill int) error {
	tris, err := TriangulateBoundary(b)
	if err != nil {
		return err
	}
	s.seedOffsets()
	base := uint32(len(s.Vertices) / 2)
	for _, n := range b {
		s.Vertices = append(s.Vertices, float32(n.Lon), float32(n.Lat))
	}
	for _, t := range tris {
		s.Indices = append(s.Indices, t[0]+base, t[1]+base, t[2]+base)
	}
	s.IndexOffsets = append(s.IndexOffsets, uint32(len(s.Indices)))
	s.FillIDs = append(s.FillIDs, fill)
	return nil
}

// Merge appends every polygon of o, rebasing its indices.
func (s *PolygonSet) Merge(o *PolygonSet) {
	s.seedOffsets()
	base := uint32(len(s.Vertices) / 2)
	s.Vertices = append(s.Vertices, o.Vertices...)
	for _, r := range o.Ranges() {
		for _, idx := range o.Indices[r.Start:r.End] {
			s.Indices = append(s.Indices, idx+base)
		}
		s.IndexOffsets = append(s.IndexOffsets, uint32(len(s.Indices)))
		s.FillIDs = append(s.FillIDs, r.Fill)
	}
}

// Len is the number of polygons.
func (s *PolygonSet) Len() int { return len(s.FillIDs) }

// Point returns the i-th vertex.
func (s *PolygonSet) Point(i uint32) (lon, lat float32) {
	return s.Vertices[2*i], s.Vertices[2*i+1]
}

// PolygonRange is the draw range of one polygon.
type PolygonRange struct {
	Start, End uint32
	Fill       int
}

// Ranges lists one triangle range per polygon in insertion order.
func (s *PolygonSet) Ranges() []PolygonRange {
	out := make([]PolygonRange, 0, s.Len())
	for i, f := range s.FillIDs {
		out = append(out, PolygonRange{Start: s.IndexOffsets[i], End: s.IndexOffsets[i+1], Fill: f})
	}
	return out
}
