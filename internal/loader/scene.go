package loader

import (
	"slices"

	"geomesh/internal/geom"
	"geomesh/internal/mesh"
)

// Subgraph is one compiled line graph in the scene.
type Subgraph struct {
	Name    string
	Path    string
	Layer   int
	Visible bool
	Mesh    *mesh.LineMesh
	// Nodes and Edges are the records the mesh was compiled from.
	Nodes int
	Edges int
}

// TriangleLayer is one compiled triangle graph.
type TriangleLayer struct {
	Name string
	Path string
	Mesh *mesh.TriangleMesh
}

// Scene is everything the renderer draws: line subgraphs ordered by layer,
// triangle graphs and one shared polygon set.
type Scene struct {
	Subgraphs    []*Subgraph
	Triangles    []*TriangleLayer
	Polygons     *mesh.PolygonSet
	PolygonNames []string

	bbox    geom.BBox
	hasBBox bool
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{Polygons: mesh.NewPolygonSet()}
}

// AddSubgraph compiles nodes and edges and appends them as a visible subgraph
// on layer. It returns the subgraph index.
func (s *Scene) AddSubgraph(name string, nodes []geom.Node, edges []geom.Edge, layer int) (int, error) {
	m, err := mesh.Compile(nodes, edges)
	if err != nil {
		return -1, err
	}
	s.addCompiled(&Subgraph{Name: name, Layer: layer, Visible: true, Mesh: m, Nodes: len(nodes), Edges: len(edges)})
	return len(s.Subgraphs) - 1, nil
}

func (s *Scene) addCompiled(sg *Subgraph) {
	s.Subgraphs = append(s.Subgraphs, sg)
	for _, v := range sg.Mesh.Vertices {
		s.extend(float64(v.Longitude), float64(v.Latitude))
	}
}

// AddTriangleGraph compiles g and appends it.
func (s *Scene) AddTriangleGraph(name string, g geom.TriangleGraph) error {
	m, err := mesh.CompileTriangleGraph(g)
	if err != nil {
		return err
	}
	s.addTriangles(&TriangleLayer{Name: name, Mesh: m})
	return nil
}

func (s *Scene) addTriangles(tl *TriangleLayer) {
	s.Triangles = append(s.Triangles, tl)
	for _, v := range tl.Mesh.NodeVertices {
		s.extend(float64(v.Longitude), float64(v.Latitude))
	}
}

// AddPolygon triangulates b into the polygon set.
func (s *Scene) AddPolygon(name string, b geom.Boundary, fill int) error {
	if err := s.Polygons.Add(b, fill); err != nil {
		return err
	}
	s.PolygonNames = append(s.PolygonNames, name)
	for _, n := range b {
		s.extend(n.Lon, n.Lat)
	}
	return nil
}

// AddPolygonSet merges every polygon of ps, all under one name.
func (s *Scene) AddPolygonSet(name string, ps *mesh.PolygonSet) {
	s.Polygons.Merge(ps)
	for i := 0; i < ps.Len(); i++ {
		s.PolygonNames = append(s.PolygonNames, name)
	}
	for i := 0; i+1 < len(ps.Vertices); i += 2 {
		s.extend(float64(ps.Vertices[i]), float64(ps.Vertices[i+1]))
	}
}

func (s *Scene) extend(lon, lat float64) {
	s.bbox = s.bbox.Extend(lon, lat, !s.hasBBox)
	s.hasBBox = true
}

// Bounds returns the box covering every loaded coordinate and false for an
// empty scene.
func (s *Scene) Bounds() (geom.BBox, bool) { return s.bbox, s.hasBBox }

// SetVisible shows or hides subgraph i. Out of range indices are ignored.
func (s *Scene) SetVisible(i int, visible bool) {
	if i < 0 || i >= len(s.Subgraphs) {
		return
	}
	s.Subgraphs[i].Visible = visible
}

// SetLayer moves subgraph i to layer. Out of range indices are ignored.
func (s *Scene) SetLayer(i int, layer int) {
	if i < 0 || i >= len(s.Subgraphs) {
		return
	}
	s.Subgraphs[i].Layer = layer
}

// DrawOrder lists visible subgraphs by ascending layer, keeping insertion
// order within a layer.
func (s *Scene) DrawOrder() []*Subgraph {
	out := make([]*Subgraph, 0, len(s.Subgraphs))
	for _, sg := range s.Subgraphs {
		if sg.Visible {
			out = append(out, sg)
		}
	}
	slices.SortStableFunc(out, func(a, b *Subgraph) int { return a.Layer - b.Layer })
	return out
}

// Pick returns the triangle graph and triangle id under (lon, lat), searching
// the last added graph first.
func (s *Scene) Pick(lon, lat float64) (layer, id int, ok bool) {
	for i := len(s.Triangles) - 1; i >= 0; i-- {
		if id, ok := s.Triangles[i].Mesh.Pick(lon, lat); ok {
			return i, id, true
		}
	}
	return -1, 0, false
}

// Empty reports whether nothing was loaded.
func (s *Scene) Empty() bool {
	return len(s.Subgraphs) == 0 && len(s.Triangles) == 0 && s.Polygons.Len() == 0
}
