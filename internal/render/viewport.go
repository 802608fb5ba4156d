// Package render draws scenes: into a braille character canvas for the
// terminal viewer, and into a PNG for snapshots.
package render

import "geomesh/internal/geom"

// Viewport maps lon/lat into a w by h area. The bbox is stretched to fill the
// area, then zoomed around its center and shifted by the pan offset, which is
// counted in cells.
type Viewport struct {
	BBox    geom.BBox
	Zoom    float64
	OffsetX int
	OffsetY int
}

// NewViewport fits bb at zoom 1 without panning.
func NewViewport(bb geom.BBox) Viewport {
	return Viewport{BBox: bb, Zoom: 1}
}

// normalized returns the zoomed position of (lon, lat) in [0,1] when it lies
// inside the visible bbox; y grows upwards.
func (v Viewport) normalized(lon, lat float64) (float64, float64, bool) {
	if !v.BBox.Valid() {
		return 0, 0, false
	}
	nx := (lon - v.BBox.MinX) / (v.BBox.MaxX - v.BBox.MinX)
	ny := (lat - v.BBox.MinY) / (v.BBox.MaxY - v.BBox.MinY)
	zx := 0.5 + (nx-0.5)*v.Zoom
	zy := 0.5 + (ny-0.5)*v.Zoom
	return zx, zy, true
}

// Cell maps lon/lat to cell coordinates of a w x h character grid.
func (v Viewport) Cell(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := v.normalized(lon, lat)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + v.OffsetX
	sy := int((1.0-zy)*float64(h-1)) + v.OffsetY
	return sx, sy, true
}

// Micro maps lon/lat onto the 2x4 braille dot grid of a w x h cell area.
func (v Viewport) Micro(lon, lat float64, w, h int) (int, int, bool) {
	zx, zy, ok := v.normalized(lon, lat)
	if !ok {
		return 0, 0, false
	}
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + v.OffsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + v.OffsetY*4
	return sx, sy, true
}

// Pixel maps lon/lat to continuous pixel coordinates of a w x h image.
func (v Viewport) Pixel(lon, lat float64, w, h int) (float64, float64, bool) {
	zx, zy, ok := v.normalized(lon, lat)
	if !ok {
		return 0, 0, false
	}
	return zx * float64(w-1), (1.0 - zy) * float64(h-1), true
}

// CellToLonLat converts a cell coordinate back to lon/lat.
func (v Viewport) CellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !v.BBox.Valid() || w <= 1 || h <= 1 || v.Zoom == 0 {
		return 0, 0, false
	}
	zx := float64(cx-v.OffsetX) / float64(w-1)
	zy := 1.0 - float64(cy-v.OffsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/v.Zoom
	ny := 0.5 + (zy-0.5)/v.Zoom
	lon := v.BBox.MinX + nx*(v.BBox.MaxX-v.BBox.MinX)
	lat := v.BBox.MinY + ny*(v.BBox.MaxY-v.BBox.MinY)
	return lon, lat, true
}

// Padded returns bb grown by frac of its size on every side, and a unit box
// around a single point so degenerate scenes still project.
func Padded(bb geom.BBox, frac float64) geom.BBox {
	dx := (bb.MaxX - bb.MinX) * frac
	dy := (bb.MaxY - bb.MinY) * frac
	if dx == 0 {
		dx = 0.5
	}
	if dy == 0 {
		dy = 0.5
	}
	return geom.BBox{MinX: bb.MinX - dx, MinY: bb.MinY - dy, MaxX: bb.MaxX + dx, MaxY: bb.MaxY + dy}
}
