package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"geomesh/internal/loader"
	"geomesh/internal/mesh"
	"geomesh/internal/render"
)

// sidebarItem is either a loaded subgraph (subgraph >= 0) or a loadable file.
type sidebarItem struct {
	title, desc string
	path        string
	subgraph    int
}

func (f sidebarItem) Title() string       { return f.title }
func (f sidebarItem) Description() string { return f.desc }
func (f sidebarItem) FilterValue() string { return f.title }

// refreshSidebar lists the scene subgraphs followed by the supported files of
// the current directory.
func (m *Model) refreshSidebar() {
	var items []list.Item
	for i, sg := range m.scene.Subgraphs {
		mark := "○"
		if sg.Visible {
			mark = "●"
		}
		items = append(items, sidebarItem{
			title:    fmt.Sprintf("%s %s (L%d)", mark, sg.Name, sg.Layer),
			desc:     sg.Path,
			path:     sg.Path,
			subgraph: i,
		})
	}

	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		m.l.SetItems(items)
		return
	}
	var files []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !loader.Supported(name) {
			continue
		}
		files = append(files, sidebarItem{title: name, desc: filepath.Ext(name), path: filepath.Join(m.cwd, name), subgraph: -1})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].(sidebarItem).title < files[j].(sidebarItem).title })
	m.l.SetItems(append(items, files...))
}

// activate toggles a subgraph or loads a file.
func (m *Model) activate(it sidebarItem) {
	if it.subgraph >= 0 {
		sg := m.scene.Subgraphs[it.subgraph]
		m.scene.SetVisible(it.subgraph, !sg.Visible)
		m.status = fmt.Sprintf("%s visible: %v", sg.Name, sg.Visible)
		m.refreshSidebar()
		return
	}
	m.loadPath(it.path)
}

// loadPath appends a file to the scene.
func (m *Model) loadPath(p string) {
	src := loader.Source{Name: filepath.Base(p), Path: p, Format: m.cfg.Format, Fill: mesh.DefaultFill}
	if err := loader.LoadInto(m.ctx, m.scene, src); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.fit()
	m.sel = render.Selection{}
	m.status = "loaded: " + filepath.Base(p) + "  " + m.counts()
	m.refreshSidebar()
	if m.showStats {
		m.refreshStats()
	}
}

func (m Model) counts() string {
	var verts, idx int
	for _, sg := range m.scene.Subgraphs {
		verts += len(sg.Mesh.Vertices)
		idx += len(sg.Mesh.Indices)
	}
	return fmt.Sprintf("subgraphs=%d vertices=%d indices=%d polygons=%d triangle graphs=%d",
		len(m.scene.Subgraphs), verts, idx, m.scene.Polygons.Len(), len(m.scene.Triangles))
}
