package render

import (
	"math"

	"geomesh/internal/loader"
	"geomesh/internal/mesh"
)

// maxDotWidth caps line widths on the braille grid, where a dot is a large
// fraction of a character cell.
const maxDotWidth = 6

// Layers selects what DrawScene draws.
type Layers struct {
	Lines     bool
	Polygons  bool
	Triangles bool
}

// AllLayers enables everything.
var AllLayers = Layers{Lines: true, Polygons: true, Triangles: true}

// Selection marks one triangle of one triangle graph as picked.
type Selection struct {
	Graph    int
	Triangle int
	Active   bool
}

const selectionColor = "#FFA500"

func dotWidth(lineWidth float64) int {
	return min(maxDotWidth, max(1, int(math.Round(lineWidth))))
}

// DrawLineMesh draws each batch as one pass with the batch line width. Each
// segment takes the color of its source vertex.
func DrawLineMesh(c *Canvas, vp Viewport, m *mesh.LineMesh, scale float64, pal *Palette) {
	if m.Empty() {
		return
	}
	w, h := c.Size()
	for _, b := range m.Batches() {
		width := dotWidth(b.LineWidth(scale))
		for i := b.Start; i+1 < b.End; i += 2 {
			src := m.Vertices[m.Indices[i]]
			tgt := m.Vertices[m.Indices[i+1]]
			x0, y0, ok0 := vp.Micro(float64(src.Longitude), float64(src.Latitude), w, h)
			x1, y1, ok1 := vp.Micro(float64(tgt.Longitude), float64(tgt.Latitude), w, h)
			if !ok0 || !ok1 {
				continue
			}
			c.DrawThickLine(x0, y0, x1, y1, width, pal.VertexColor(src.Color).Hex())
		}
	}
}

// DrawPolygons fills every triangle of the set with its polygon's fill color.
func DrawPolygons(c *Canvas, vp Viewport, ps *mesh.PolygonSet, pal *Palette) {
	w, h := c.Size()
	for _, r := range ps.Ranges() {
		col := pal.Fill(r.Fill).Hex()
		for i := r.Start; i+3 <= r.End; i += 3 {
			var pts [3][2]float64
			ok := true
			for k := uint32(0); k < 3; k++ {
				lon, lat := ps.Point(ps.Indices[i+k])
				mx, my, okp := vp.Micro(float64(lon), float64(lat), w, h)
				ok = ok && okp
				pts[k] = [2]float64{float64(mx), float64(my)}
			}
			if ok {
				c.FillTriangle(pts[0], pts[1], pts[2], col)
			}
		}
	}
}

// DrawTriangleGraph fills triangles, then draws edges and nodes on top. The
// selected triangle is outlined.
func DrawTriangleGraph(c *Canvas, vp Viewport, tm *mesh.TriangleMesh, selected int) {
	w, h := c.Size()
	project := func(lon, lat float32) ([2]float64, [2]int, bool) {
		mx, my, ok := vp.Micro(float64(lon), float64(lat), w, h)
		return [2]float64{float64(mx), float64(my)}, [2]int{mx, my}, ok
	}

	for t := 0; t < tm.Triangles(); t++ {
		var pts [3][2]float64
		var dots [3][2]int
		ok := true
		for k := 0; k < 3; k++ {
			v := tm.TriangleVertices[tm.TriangleIndices[3*t+k]]
			p, d, okp := project(v.Longitude, v.Latitude)
			pts[k], dots[k], ok = p, d, ok && okp
		}
		if !ok {
			continue
		}
		col := FromRGBA(tm.TriangleVertices[tm.TriangleIndices[3*t]].Color).Hex()
		c.FillTriangle(pts[0], pts[1], pts[2], col)
		if t == selected {
			for k := 0; k < 3; k++ {
				a, b := dots[k], dots[(k+1)%3]
				c.DrawThickLine(a[0], a[1], b[0], b[1], 2, selectionColor)
			}
		}
	}

	for i := 0; i+1 < len(tm.EdgeIndices); i += 2 {
		a := tm.EdgeVertices[tm.EdgeIndices[i]]
		b := tm.EdgeVertices[tm.EdgeIndices[i+1]]
		_, da, oka := project(a.Longitude, a.Latitude)
		_, db, okb := project(b.Longitude, b.Latitude)
		if oka && okb {
			c.DrawLine(da[0], da[1], db[0], db[1], FromRGBA(a.Color).Hex())
		}
	}

	for _, idx := range tm.NodeIndices {
		v := tm.NodeVertices[idx]
		if _, d, ok := project(v.Longitude, v.Latitude); ok {
			c.Set(d[0], d[1], FromRGBA(v.Color).Hex())
		}
	}
}

// DrawScene draws polygons, then triangle graphs, then visible line
// subgraphs in layer order.
func DrawScene(c *Canvas, vp Viewport, s *loader.Scene, layers Layers, scale float64, pal *Palette, sel Selection) {
	if layers.Polygons {
		DrawPolygons(c, vp, s.Polygons, pal)
	}
	if layers.Triangles {
		for i, tl := range s.Triangles {
			picked := -1
			if sel.Active && sel.Graph == i {
				picked = sel.Triangle
			}
			DrawTriangleGraph(c, vp, tl.Mesh, picked)
		}
	}
	if layers.Lines {
		for _, sg := range s.DrawOrder() {
			DrawLineMesh(c, vp, sg.Mesh, scale, pal)
		}
	}
}
