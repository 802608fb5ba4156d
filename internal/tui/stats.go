package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshStats fills the table with one row per batch of every subgraph.
func (m *Model) refreshStats() {
	cols := []table.Column{
		{Title: "subgraph", Width: 16},
		{Title: "vis", Width: 3},
		{Title: "batch", Width: 5},
		{Title: "start", Width: 7},
		{Title: "end", Width: 7},
		{Title: "width", Width: 5},
		{Title: "px", Width: 5},
		{Title: "verts", Width: 7},
		{Title: "idx", Width: 7},
	}
	var rows []table.Row
	for _, sg := range m.scene.Subgraphs {
		vis := "no"
		if sg.Visible {
			vis = "yes"
		}
		verts := strconv.Itoa(len(sg.Mesh.Vertices))
		idx := strconv.Itoa(len(sg.Mesh.Indices))
		batches := sg.Mesh.Batches()
		if len(batches) == 0 {
			rows = append(rows, table.Row{sg.Name, vis, "-", "-", "-", "-", "-", verts, idx})
			continue
		}
		for i, b := range batches {
			rows = append(rows, table.Row{
				sg.Name, vis, strconv.Itoa(i),
				strconv.FormatUint(uint64(b.Start), 10),
				strconv.FormatUint(uint64(b.End), 10),
				strconv.FormatUint(uint64(b.Width), 10),
				fmt.Sprintf("%.1f", b.LineWidth(m.scale)),
				verts, idx,
			})
		}
	}
	// Clear rows before swapping columns so the table never renders a row
	// wider than its columns.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
