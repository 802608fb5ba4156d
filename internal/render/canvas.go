package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is a braille micro-grid: every character cell holds 2x4 dots and
// one foreground color, the color of the last dot set in it.
type Canvas struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	color [][]string
	marks map[int]rune
}

func NewCanvas(w, h int) *Canvas {
	m := make([][]uint8, h)
	col := make([][]string, h)
	for i := range m {
		m[i] = make([]uint8, w)
		col[i] = make([]string, w)
	}
	return &Canvas{w: w, h: h, m: m, color: col, marks: map[int]rune{}}
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// MicroSize returns the canvas size in dots.
func (c *Canvas) MicroSize() (int, int) { return c.w * 2, c.h * 4 }

// dotBits[row][col] is the braille bit of a dot inside a cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Set sets the dot at micro coords (mx, my). Dots outside the canvas are
// dropped.
func (c *Canvas) Set(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.m[cy][cx] |= dotBits[my%4][mx%2]
	if color != "" {
		c.color[cy][cx] = color
	}
}

// Dot reports whether the dot at (mx, my) is set.
func (c *Canvas) Dot(mx, my int) bool {
	if mx < 0 || my < 0 || mx/2 >= c.w || my/4 >= c.h {
		return false
	}
	return c.m[my/4][mx/2]&dotBits[my%4][mx%2] != 0
}

// CellColor returns the color of a cell, empty when unset.
func (c *Canvas) CellColor(cx, cy int) string {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return ""
	}
	return c.color[cy][cx]
}

// Mark replaces the glyph of a cell, e.g. for a cursor.
func (c *Canvas) Mark(cx, cy int, r rune, color string) {
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return
	}
	c.marks[cy*c.w+cx] = r
	c.color[cy][cx] = color
}

func (c *Canvas) glyphAt(x, y int) rune {
	if r, ok := c.marks[y*c.w+x]; ok {
		return r
	}
	return glyph(c.m[y][x])
}

// DrawLine draws a one dot wide line using Bresenham.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawThickLine draws a line width dots wide by stamping parallel Bresenham
// lines across the minor axis.
func (c *Canvas) DrawThickLine(x0, y0, x1, y1, width int, color string) {
	if width <= 1 {
		c.DrawLine(x0, y0, x1, y1, color)
		return
	}
	lo := -(width - 1) / 2
	hi := lo + width - 1
	steep := abs(y1-y0) > abs(x1-x0)
	for k := lo; k <= hi; k++ {
		if steep {
			c.DrawLine(x0+k, y0, x1+k, y1, color)
		} else {
			c.DrawLine(x0, y0+k, x1, y1+k, color)
		}
	}
}

// FillTriangle fills the dots whose centers lie inside the triangle, using
// horizontal spans per dot row.
func (c *Canvas) FillTriangle(p0, p1, p2 [2]float64, color string) {
	_, hMic := c.MicroSize()
	minY := max(0, int(min(p0[1], p1[1], p2[1])))
	maxY := min(hMic-1, int(max(p0[1], p1[1], p2[1])))
	edges := [3][2][2]float64{{p0, p1}, {p1, p2}, {p2, p0}}
	for y := minY; y <= maxY; y++ {
		yc := float64(y) + 0.5
		var xs []float64
		for _, e := range edges {
			a, b := e[0], e[1]
			if a[1] == b[1] {
				continue
			}
			if (yc >= a[1] && yc < b[1]) || (yc >= b[1] && yc < a[1]) {
				t := (yc - a[1]) / (b[1] - a[1])
				xs = append(xs, a[0]+t*(b[0]-a[0]))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for x := max(0, int(math.Ceil(xs[0]-0.5))); float64(x)+0.5 <= xs[len(xs)-1]; x++ {
			c.Set(x, y, color)
		}
	}
}

// Lines returns the canvas as plain braille text, one string per cell row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			row[x] = c.glyphAt(x, y)
		}
		out[y] = string(row)
	}
	return out
}

func glyph(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// Render returns the canvas with per-cell colors applied. Runs of equal color
// share one style.
func (c *Canvas) Render() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var sb strings.Builder
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.color[y][x] == c.color[y][start] {
				continue
			}
			run := make([]rune, 0, x-start)
			for i := start; i < x; i++ {
				run = append(run, c.glyphAt(i, y))
			}
			if col := c.color[y][start]; col != "" {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
