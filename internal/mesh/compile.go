package mesh

import (
	"cmp"
	"slices"

	"geomesh/internal/geom"
)

// Unassigned marks a vertex whose color has not been fixed yet.
const Unassigned float32 = -1

// Vertex is the GPU layout of a line mesh vertex: position plus the color id
// encoded as a float attribute. Ids beyond ±geom.MaxColorID lose precision in
// float32 and may share an attribute value.
type Vertex struct {
	Longitude float32
	Latitude  float32
	Color     float32
}

// LineMesh is the output of Compile.
//
// Indices holds two entries per edge. BatchOffsets partitions Indices into
// ranges of equal edge width: batch i spans Indices[BatchOffsets[i]:BatchOffsets[i+1]]
// and is drawn with BatchWidths[i].
type LineMesh struct {
	Vertices     []Vertex
	Indices      []uint32
	BatchOffsets []uint32
	BatchWidths  []uint32
}

// Batch is one contiguous index range drawn with a single line width.
type Batch struct {
	Start uint32
	End   uint32
	Width uint32
}

// Count is the number of indices in the batch.
func (b Batch) Count() uint32 { return b.End - b.Start }

// LineWidth is the width a renderer should use for the batch at the given
// zoom dependent scale. It never drops below one pixel.
func (b Batch) LineWidth(scale float64) float64 {
	return max(1, float64(b.Width)*scale)
}

// Empty reports whether there is nothing to upload or draw.
func (m *LineMesh) Empty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) == 0
}

// Batches returns the batch table as ranges.
func (m *LineMesh) Batches() []Batch {
	out := make([]Batch, 0, len(m.BatchWidths))
	for i, w := range m.BatchWidths {
		out = append(out, Batch{Start: m.BatchOffsets[i], End: m.BatchOffsets[i+1], Width: w})
	}
	return out
}

// Segment returns the two vertices of the i-th line of the index buffer.
func (m *LineMesh) Segment(i int) (Vertex, Vertex) {
	return m.Vertices[m.Indices[2*i]], m.Vertices[m.Indices[2*i+1]]
}

// colorSlot maps one color seen at a node to the vertex that carries it.
type colorSlot struct {
	color  int32
	vertex uint32
}

// colorTable records, per node, which vertex represents the node for each
// color seen so far. All vertices live in one arena and are referenced by index.
type colorTable struct {
	slots [][]colorSlot
}

func newColorTable(nodes int) *colorTable {
	return &colorTable{slots: make([][]colorSlot, nodes)}
}

// resolve returns the vertex that represents node for the given color,
// claiming the node's own vertex on first use and appending a copy when the
// node already carries other colors.
func (t *colorTable) resolve(vertices []Vertex, node uint32, color int32) ([]Vertex, uint32) {
	slots := t.slots[node]
	for _, s := range slots {
		if s.color == color {
			return vertices, s.vertex
		}
	}
	v := node
	if len(slots) == 0 {
		vertices[node].Color = float32(color)
	} else {
		v = uint32(len(vertices))
		dup := vertices[node]
		dup.Color = float32(color)
		vertices = append(vertices, dup)
	}
	t.slots[node] = append(slots, colorSlot{color: color, vertex: v})
	return vertices, v
}

// Compile builds a line mesh from nodes and edges.
//
// Edges are stably sorted by width, so equal widths keep their input order and
// batch boundaries are reproducible. The inputs are not modified. An edge that
// references a missing node makes Compile fail with an *IndexOutOfRangeError
// before any output is produced.
func Compile(nodes []geom.Node, edges []geom.Edge) (*LineMesh, error) {
	for i, e := range edges {
		for _, idx := range [2]uint32{e.Source, e.Target} {
			if int(idx) >= len(nodes) {
				return nil, &IndexOutOfRangeError{Kind: "edge", Item: i, Index: idx, Nodes: len(nodes)}
			}
		}
	}

	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b geom.Edge) int { return cmp.Compare(a.Width, b.Width) })

	vertices := make([]Vertex, len(nodes), len(nodes)+len(nodes)/4)
	for i, n := range nodes {
		vertices[i] = Vertex{Longitude: float32(n.Lon), Latitude: float32(n.Lat), Color: Unassigned}
	}

	m := &LineMesh{Indices: make([]uint32, 0, 2*len(sorted))}
	table := newColorTable(len(nodes))
	for i, e := range sorted {
		if i == 0 || e.Width != sorted[i-1].Width {
			m.BatchOffsets = append(m.BatchOffsets, uint32(len(m.Indices)))
			m.BatchWidths = append(m.BatchWidths, e.Width)
		}
		var src, tgt uint32
		vertices, src = table.resolve(vertices, e.Source, e.Color)
		vertices, tgt = table.resolve(vertices, e.Target, e.Color)
		m.Indices = append(m.Indices, src, tgt)
	}
	m.BatchOffsets = append(m.BatchOffsets, uint32(len(m.Indices)))
	m.Vertices = vertices
	return m, nil
}
