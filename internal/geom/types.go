package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-zero extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Extend grows b to include (lon, lat). The zero BBox is treated as empty
// only when first is true.
func (b BBox) Extend(lon, lat float64, first bool) BBox {
	if first {
		return BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
	}
	if lon < b.MinX {
		b.MinX = lon
	}
	if lat < b.MinY {
		b.MinY = lat
	}
	if lon > b.MaxX {
		b.MaxX = lon
	}
	if lat > b.MaxY {
		b.MaxY = lat
	}
	return b
}

// Union returns the smallest box covering both a and b.
func (b BBox) Union(o BBox) BBox {
	b = b.Extend(o.MinX, o.MinY, false)
	return b.Extend(o.MaxX, o.MaxY, false)
}

// Node is a graph vertex in geo coordinates.
type Node struct {
	Lat float64
	Lon float64
}

// MaxColorID bounds edge color ids: every id in [-MaxColorID, MaxColorID]
// survives the float32 vertex color attribute unchanged.
const MaxColorID = 1 << 24

// Edge connects two nodes by index. Color is a classification key, not an RGB value.
type Edge struct {
	Source uint32
	Target uint32
	Width  uint32
	Color  int32
}

// RGBA is an 8-bit color as found in triangle graph files.
type RGBA struct {
	R, G, B, A uint8
}

type ColorNode struct {
	Node
	Color RGBA
}

type ColorEdge struct {
	Source uint32
	Target uint32
	Color  RGBA
}

type ColorTriangle struct {
	V1, V2, V3 uint32
	Color      RGBA
}

// LineGraph is the content of a .gl file.
type LineGraph struct {
	Nodes []Node
	Edges []Edge
}

// TriangleGraph is the content of a .sg file.
type TriangleGraph struct {
	Nodes     []ColorNode
	Edges     []ColorEdge
	Triangles []ColorTriangle
}

// Boundary is the implicitly closed outer ring of a simple polygon.
type Boundary []Node

// BoundsOf returns the bbox of the given nodes and false when nodes is empty.
func BoundsOf(nodes []Node) (BBox, bool) {
	var bb BBox
	for i, n := range nodes {
		bb = bb.Extend(n.Lon, n.Lat, i == 0)
	}
	return bb, len(nodes) > 0
}
