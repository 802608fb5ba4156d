package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geomesh/internal/render"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen split shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lo layout
	lo.contentH = max(4, m.height-headerHeight-footerHeight)
	lo.contentW = max(10, m.width)
	sb := 0
	if m.showSidebar {
		sb = sidebarWidth + 1
	}
	lo.mapX = sb
	lo.mapY = headerHeight
	lo.mapW = max(10, lo.contentW-sb)
	lo.mapH = lo.contentH
	return lo
}

// renderMap draws the scene into a w x h braille canvas.
func (m Model) renderMap(w, h int) string {
	if m.scene.Empty() {
		msg := dimStyle.Render("no data: Tab to open a file, p to paste WKT")
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
	}
	c := render.NewCanvas(w, h)
	render.DrawScene(c, m.vp, m.scene, m.layers, m.scale, m.pal, m.sel)
	if m.hovering {
		c.Mark(m.hoverCellX, m.hoverCellY, '◯', hoverColor)
	}
	return c.Render()
}

// inspect describes the scene and the cursor position.
func (m Model) inspect() string {
	bb, _ := m.scene.Bounds()
	lines := []string{
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY),
		fmt.Sprintf("zoom: %.2fx  width scale: %.2f", m.vp.Zoom, m.scale),
	}
	for _, sg := range m.scene.Subgraphs {
		lines = append(lines, fmt.Sprintf("%s: nodes=%d edges=%d vertices=%d batches=%d",
			sg.Name, sg.Nodes, sg.Edges, len(sg.Mesh.Vertices), len(sg.Mesh.BatchWidths)))
	}
	for i, r := range m.scene.Polygons.Ranges() {
		name := ""
		if i < len(m.scene.PolygonNames) {
			name = m.scene.PolygonNames[i]
		}
		lines = append(lines, fmt.Sprintf("polygon %d %s: triangles=%d fill=%d", i, name, (r.End-r.Start)/3, r.Fill))
	}
	for _, tl := range m.scene.Triangles {
		lines = append(lines, fmt.Sprintf("%s: triangles=%d", tl.Name, tl.Mesh.Triangles()))
	}
	if m.sel.Active {
		lines = append(lines, fmt.Sprintf("picked: %s triangle %d", m.scene.Triangles[m.sel.Graph].Name, m.sel.Triangle))
	}
	if m.hoverHasGeo {
		lines = append(lines, fmt.Sprintf("cursor: lon=%.6f lat=%.6f", m.hoverLon, m.hoverLat))
	}
	return strings.Join(lines, "\n")
}
