// Package tui is the interactive terminal viewer for compiled scenes.
package tui

import (
	"context"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geomesh/internal/config"
	"geomesh/internal/ctxlog"
	"geomesh/internal/loader"
	"geomesh/internal/render"
)

const (
	minScale = 0.1
	maxScale = 16
)

type Model struct {
	ctx context.Context
	log *slog.Logger
	cfg *config.Config

	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	// Scene
	scene  *loader.Scene
	pal    *render.Palette
	vp     render.Viewport
	scale  float64
	layers render.Layers
	sel    render.Selection

	// File explorer and subgraph toggles
	cwd string
	l   list.Model

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// batch table
	showStats bool
	tbl       table.Model
}

// New returns a viewer for s. The logger is taken from ctx.
func New(ctx context.Context, cfg *config.Config, s *loader.Scene) Model {
	if s == nil {
		s = loader.NewScene()
	}
	m := Model{
		ctx:         ctx,
		log:         ctxlog.FromContext(ctx),
		cfg:         cfg,
		helpVisible: true,
		status:      "geomesh ready",
		scene:       s,
		pal:         render.NewPalette(cfg.PaletteOverrides()),
		scale:       cfg.WidthScale,
		layers:      render.AllLayers,
	}
	if m.scale <= 0 {
		m.scale = 1
	}
	m.cwd, _ = os.Getwd()

	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Layers & files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.l.KeyMap.Quit.SetEnabled(false)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a WKT POLYGON or MULTIPOLYGON. Enter to triangulate; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.fit()
	m.refreshSidebar()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// fit resets the viewport to the scene bounds.
func (m *Model) fit() {
	bb, ok := m.scene.Bounds()
	if !ok {
		m.vp = render.Viewport{Zoom: 1}
		return
	}
	m.vp = render.NewViewport(render.Padded(bb, 0.05))
}
