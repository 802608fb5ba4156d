package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"geomesh/internal/geom"
)

const goldenRatio = 0.618033988749895

// Palette assigns display colors to edge color ids and polygon fill ids.
// Configured overrides win; every other id gets a hue stepped by the golden
// ratio so neighbouring ids stay far apart.
type Palette struct {
	overrides map[int32]colorful.Color
	cache     map[int32]string
}

// NewPalette returns a palette with the given overrides.
func NewPalette(overrides map[int32]colorful.Color) *Palette {
	if overrides == nil {
		overrides = map[int32]colorful.Color{}
	}
	return &Palette{overrides: overrides, cache: map[int32]string{}}
}

var defaultFillColor = colorful.Color{R: 0.29, G: 0.33, B: 0.41}

// Color returns the color of an edge color id.
func (p *Palette) Color(id int32) colorful.Color {
	if c, ok := p.overrides[id]; ok {
		return c
	}
	hue := math.Mod(float64(id)*goldenRatio, 1)
	if hue < 0 {
		hue++
	}
	return colorful.Hsv(hue*360, 0.65, 0.95)
}

// Hex is Color as "#rrggbb", memoized for the terminal renderer.
func (p *Palette) Hex(id int32) string {
	if h, ok := p.cache[id]; ok {
		return h
	}
	h := p.Color(id).Hex()
	p.cache[id] = h
	return h
}

// VertexColor decodes the float color attribute of a line mesh vertex. Every
// vertex an index refers to carries its edge color, so -1 is an ordinary id.
func (p *Palette) VertexColor(attr float32) colorful.Color {
	return p.Color(int32(attr))
}

// Fill returns the color of a polygon fill id; negative ids use the default fill.
func (p *Palette) Fill(id int) colorful.Color {
	if id < 0 {
		return defaultFillColor
	}
	h, s, v := p.Color(int32(id)).Hsv()
	return colorful.Hsv(h, s*0.6, v*0.55)
}

// FromRGBA converts an 8-bit record color, dropping alpha.
func FromRGBA(c geom.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
