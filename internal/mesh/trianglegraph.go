package mesh

import "geomesh/internal/geom"

type ColorVertex struct {
	Longitude float32
	Latitude  float32
	Color     geom.RGBA
}

// IDVertex carries the id of the triangle it belongs to so a picking pass can
// recover the triangle under the cursor.
type IDVertex struct {
	Longitude float32
	Latitude  float32
	ID        int32
	Color     geom.RGBA
}

// TriangleMesh holds the three independent meshes of a triangle graph:
// points for nodes, lines for edges and filled triangles.
type TriangleMesh struct {
	NodeVertices     []ColorVertex
	NodeIndices      []uint32
	EdgeVertices     []ColorVertex
	EdgeIndices      []uint32
	TriangleVertices []IDVertex
	TriangleIndices  []uint32
}

// CompileTriangleGraph builds node, edge and triangle meshes. Edges and
// triangles get private vertices so each carries its own color.
func CompileTriangleGraph(g geom.TriangleGraph) (*TriangleMesh, error) {
	nn := len(g.Nodes)
	for i, e := range g.Edges {
		for _, idx := range [2]uint32{e.Source, e.Target} {
			if int(idx) >= nn {
				return nil, &IndexOutOfRangeError{Kind: "edge", Item: i, Index: idx, Nodes: nn}
			}
		}
	}
	for i, t := range g.Triangles {
		for _, idx := range [3]uint32{t.V1, t.V2, t.V3} {
			if int(idx) >= nn {
				return nil, &IndexOutOfRangeError{Kind: "triangle", Item: i, Index: idx, Nodes: nn}
			}
		}
	}

	m := &TriangleMesh{
		NodeVertices:     make([]ColorVertex, 0, nn),
		NodeIndices:      make([]uint32, 0, nn),
		EdgeVertices:     make([]ColorVertex, 0, 2*len(g.Edges)),
		EdgeIndices:      make([]uint32, 0, 2*len(g.Edges)),
		TriangleVertices: make([]IDVertex, 0, 3*len(g.Triangles)),
		TriangleIndices:  make([]uint32, 0, 3*len(g.Triangles)),
	}
	for i, n := range g.Nodes {
		m.NodeVertices = append(m.NodeVertices, ColorVertex{Longitude: float32(n.Lon), Latitude: float32(n.Lat), Color: n.Color})
		m.NodeIndices = append(m.NodeIndices, uint32(i))
	}
	for _, e := range g.Edges {
		for _, idx := range [2]uint32{e.Source, e.Target} {
			n := g.Nodes[idx]
			m.EdgeIndices = append(m.EdgeIndices, uint32(len(m.EdgeVertices)))
			m.EdgeVertices = append(m.EdgeVertices, ColorVertex{Longitude: float32(n.Lon), Latitude: float32(n.Lat), Color: e.Color})
		}
	}
	for id, t := range g.Triangles {
		for _, idx := range [3]uint32{t.V1, t.V2, t.V3} {
			n := g.Nodes[idx]
			m.TriangleIndices = append(m.TriangleIndices, uint32(len(m.TriangleVertices)))
			m.TriangleVertices = append(m.TriangleVertices, IDVertex{
				Longitude: float32(n.Lon), Latitude: float32(n.Lat), ID: int32(id), Color: t.Color,
			})
		}
	}
	return m, nil
}

// Triangles is the number of triangles in the mesh.
func (m *TriangleMesh) Triangles() int { return len(m.TriangleIndices) / 3 }

// Pick returns the id of the topmost (last drawn) triangle containing the point.
func (m *TriangleMesh) Pick(lon, lat float64) (int, bool) {
	p := Point{X: lon, Y: lat}
	for t := m.Triangles() - 1; t >= 0; t-- {
		var c [3]Point
		for k := 0; k < 3; k++ {
			v := m.TriangleVertices[m.TriangleIndices[3*t+k]]
			c[k] = Point{X: float64(v.Longitude), Y: float64(v.Latitude)}
		}
		if cross(c[1].sub(c[0]), c[2].sub(c[0])) == 0 {
			continue
		}
		if inTriangle(p, c[0], c[1], c[2]) {
			return int(m.TriangleVertices[m.TriangleIndices[3*t]].ID), true
		}
	}
	return 0, false
}
