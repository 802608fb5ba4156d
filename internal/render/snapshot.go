package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/gogpu/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"geomesh/internal/loader"
	"geomesh/internal/mesh"
)

// SnapshotOptions configures Snapshot.
type SnapshotOptions struct {
	Width      int
	Height     int
	Background string
	Scale      float64
	Palette    *Palette
	Layers     Layers
}

// Snapshot renders s to a PNG. Line batches are stroked with their real
// width, one stroke per batch and color.
func Snapshot(w io.Writer, s *loader.Scene, opts SnapshotOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("snapshot size %dx%d: must be positive", opts.Width, opts.Height)
	}
	if opts.Palette == nil {
		opts.Palette = NewPalette(nil)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(opts.Background))

	if bb, ok := s.Bounds(); ok {
		p := &painter{dc: dc, vp: NewViewport(Padded(bb, 0.05)), w: opts.Width, h: opts.Height}
		if opts.Layers.Polygons {
			if err := p.polygons(s.Polygons, opts.Palette); err != nil {
				return err
			}
		}
		if opts.Layers.Triangles {
			for _, tl := range s.Triangles {
				if err := p.triangleGraph(tl.Mesh); err != nil {
					return err
				}
			}
		}
		if opts.Layers.Lines {
			for _, sg := range s.DrawOrder() {
				if err := p.lineMesh(sg.Mesh, opts.Scale, opts.Palette); err != nil {
					return fmt.Errorf("subgraph %s: %w", sg.Name, err)
				}
			}
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

type painter struct {
	dc   *gg.Context
	vp   Viewport
	w, h int
}

func (p *painter) pt(lon, lat float32) (float64, float64) {
	x, y, _ := p.vp.Pixel(float64(lon), float64(lat), p.w, p.h)
	return x, y
}

func (p *painter) triangle(a, b, c [2]float32) {
	x, y := p.pt(a[0], a[1])
	p.dc.MoveTo(x, y)
	x, y = p.pt(b[0], b[1])
	p.dc.LineTo(x, y)
	x, y = p.pt(c[0], c[1])
	p.dc.LineTo(x, y)
	p.dc.ClosePath()
}

func (p *painter) polygons(ps *mesh.PolygonSet, pal *Palette) error {
	for _, r := range ps.Ranges() {
		for i := r.Start; i+3 <= r.End; i += 3 {
			var v [3][2]float32
			for k := uint32(0); k < 3; k++ {
				v[k][0], v[k][1] = ps.Point(ps.Indices[i+k])
			}
			p.triangle(v[0], v[1], v[2])
		}
		p.dc.SetColor(pal.Fill(r.Fill))
		if err := p.dc.Fill(); err != nil {
			return fmt.Errorf("fill polygon: %w", err)
		}
	}
	return nil
}

func (p *painter) triangleGraph(tm *mesh.TriangleMesh) error {
	for t := 0; t < tm.Triangles(); t++ {
		var v [3][2]float32
		for k := 0; k < 3; k++ {
			tv := tm.TriangleVertices[tm.TriangleIndices[3*t+k]]
			v[k] = [2]float32{tv.Longitude, tv.Latitude}
		}
		col := tm.TriangleVertices[tm.TriangleIndices[3*t]].Color
		p.triangle(v[0], v[1], v[2])
		p.dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
		if err := p.dc.Fill(); err != nil {
			return fmt.Errorf("fill triangle %d: %w", t, err)
		}
	}
	p.dc.SetLineWidth(1)
	for i := 0; i+1 < len(tm.EdgeIndices); i += 2 {
		a := tm.EdgeVertices[tm.EdgeIndices[i]]
		b := tm.EdgeVertices[tm.EdgeIndices[i+1]]
		x0, y0 := p.pt(a.Longitude, a.Latitude)
		x1, y1 := p.pt(b.Longitude, b.Latitude)
		p.dc.MoveTo(x0, y0)
		p.dc.LineTo(x1, y1)
		p.dc.SetRGBA(float64(a.Color.R)/255, float64(a.Color.G)/255, float64(a.Color.B)/255, float64(a.Color.A)/255)
		if err := p.dc.Stroke(); err != nil {
			return fmt.Errorf("stroke edge %d: %w", i/2, err)
		}
	}
	return nil
}

func (p *painter) lineMesh(m *mesh.LineMesh, scale float64, pal *Palette) error {
	if m.Empty() {
		return nil
	}
	p.dc.SetLineCap(gg.LineCapRound)
	for _, b := range m.Batches() {
		byColor := map[float32][]uint32{}
		for i := b.Start; i+1 < b.End; i += 2 {
			attr := m.Vertices[m.Indices[i]].Color
			byColor[attr] = append(byColor[attr], i)
		}
		colors := make([]float32, 0, len(byColor))
		for c := range byColor {
			colors = append(colors, c)
		}
		slices.Sort(colors)

		p.dc.SetLineWidth(b.LineWidth(scale))
		for _, attr := range colors {
			for _, i := range byColor[attr] {
				src := m.Vertices[m.Indices[i]]
				tgt := m.Vertices[m.Indices[i+1]]
				x0, y0 := p.pt(src.Longitude, src.Latitude)
				x1, y1 := p.pt(tgt.Longitude, tgt.Latitude)
				p.dc.MoveTo(x0, y0)
				p.dc.LineTo(x1, y1)
			}
			p.dc.SetColor(opaque(pal.VertexColor(attr)))
			if err := p.dc.Stroke(); err != nil {
				return fmt.Errorf("stroke batch width %d: %w", b.Width, err)
			}
		}
	}
	return nil
}

// opaque clamps c into gamut; colorful.Color reports alpha 1.
func opaque(c colorful.Color) colorful.Color { return c.Clamped() }
