package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geomesh/internal/geom"
	"geomesh/internal/mesh"
	"geomesh/internal/render"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, every key belongs to the list.
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			m.status = "view mode"
			return m, nil
		case "enter":
			m.pasteWKT(strings.TrimSpace(m.ta.Value()))
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.layers.Lines = !m.layers.Lines
		m.status = fmt.Sprintf("lines: %v", m.layers.Lines)
	case "2":
		m.layers.Polygons = !m.layers.Polygons
		m.status = fmt.Sprintf("polygons: %v", m.layers.Polygons)
	case "3":
		m.layers.Triangles = !m.layers.Triangles
		m.status = fmt.Sprintf("triangle graphs: %v", m.layers.Triangles)
	case "l":
		all := m.layers == render.AllLayers
		m.layers = render.Layers{Lines: !all, Polygons: !all, Triangles: !all}
		m.status = fmt.Sprintf("layers: lines=%v polygons=%v triangles=%v", m.layers.Lines, m.layers.Polygons, m.layers.Triangles)
	case "+", "=":
		if m.vp.Zoom < 64 {
			m.vp.Zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.vp.Zoom)
		}
	case "-", "_":
		if m.vp.Zoom > 0.05 {
			m.vp.Zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.vp.Zoom)
		}
	case "0":
		m.fit()
		m.status = "view reset"
	case "]":
		m.scale = min(maxScale, m.scale*1.25)
		m.status = fmt.Sprintf("width scale: %.2f", m.scale)
		if m.showStats {
			m.refreshStats()
		}
	case "[":
		m.scale = max(minScale, m.scale/1.25)
		m.status = fmt.Sprintf("width scale: %.2f", m.scale)
		if m.showStats {
			m.refreshStats()
		}
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshSidebar()
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		return m, m.ta.Focus()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showStats = !m.showStats
		if m.showStats {
			m.refreshStats()
		}
	case "i":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
			break
		}
		if m.scene.Empty() {
			m.status = "nothing to inspect"
			break
		}
		m.inspectPopup = m.inspect()
		m.status = "inspect popup"
	case "esc":
		m.inspectPopup = ""
		m.sel = render.Selection{}
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(sidebarItem); ok {
				m.activate(it)
			}
		}
	case "up", "down":
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if msg.String() == "up" {
			m.vp.OffsetY--
		} else {
			m.vp.OffsetY++
		}
	case "left":
		m.vp.OffsetX -= 2
	case "right":
		m.vp.OffsetX += 2
	default:
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// pasteWKT triangulates every polygon of src and adds them to the scene, all
// or nothing.
func (m *Model) pasteWKT(src string) {
	if src == "" {
		m.status = "paste: empty"
		return
	}
	bs, err := geom.ParseWKTBoundaries(src)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return
	}
	ps := mesh.NewPolygonSet()
	for i, b := range bs {
		if err := ps.Add(b, mesh.DefaultFill); err != nil {
			m.status = fmt.Sprintf("polygon %d: %v", i, err)
			m.log.Debug("Pasted polygon rejected.", "polygon", i, "error", err)
			return
		}
	}
	m.scene.AddPolygonSet("paste", ps)
	m.log.Debug("Pasted polygons added.", "count", len(bs))
	m.fit()
	m.layers.Polygons = true
	m.pasteMode = false
	m.ta.Blur()
	m.status = fmt.Sprintf("triangulated %d polygon(s)", len(bs))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lo := m.layout()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vp.Zoom = min(64, m.vp.Zoom*1.1)
		return
	case tea.MouseButtonWheelDown:
		m.vp.Zoom = max(0.05, m.vp.Zoom/1.1)
		return
	}

	cx, cy := msg.X-lo.mapX, msg.Y-lo.mapY
	if cx < 0 || cx >= lo.mapW || cy < 0 || cy >= lo.mapH {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.vp.CellToLonLat(cx, cy, lo.mapW, lo.mapH)

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || !m.hoverHasGeo {
		return
	}
	graph, id, ok := m.scene.Pick(m.hoverLon, m.hoverLat)
	if !ok {
		m.sel = render.Selection{}
		m.status = "no triangle here"
		return
	}
	m.sel = render.Selection{Graph: graph, Triangle: id, Active: true}
	m.status = fmt.Sprintf("picked %s triangle %d", m.scene.Triangles[graph].Name, id)
}
