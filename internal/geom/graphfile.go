package geom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseError reports a malformed record together with its 1-based line number.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

type record struct {
	line   int
	fields []string
}

// recordReader yields whitespace-split, non-empty, non-comment lines.
type recordReader struct {
	recs []record
	pos  int
	last int
}

func readRecords(r io.Reader) (*recordReader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	rr := &recordReader{}
	n := 0
	for sc.Scan() {
		n++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		rr.recs = append(rr.recs, record{line: n, fields: strings.Fields(s)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	rr.last = n
	return rr, nil
}

func (rr *recordReader) peek() (record, bool) {
	if rr.pos >= len(rr.recs) {
		return record{}, false
	}
	return rr.recs[rr.pos], true
}

func (rr *recordReader) next(what string) (record, error) {
	rec, ok := rr.peek()
	if !ok {
		return record{}, &ParseError{Line: rr.last + 1, Msg: "unexpected end of file, expected " + what}
	}
	rr.pos++
	return rec, nil
}

func (rr *recordReader) count(what string) (int, error) {
	rec, err := rr.next(what)
	if err != nil {
		return 0, err
	}
	if len(rec.fields) != 1 {
		return 0, &ParseError{Line: rec.line, Msg: what + ": expected a single count"}
	}
	v, err := strconv.ParseUint(rec.fields[0], 10, 32)
	if err != nil {
		return 0, &ParseError{Line: rec.line, Msg: what, Err: err}
	}
	return int(v), nil
}

// capacity bounds a count read from the file by the records left.
func (rr *recordReader) capacity(n int) int {
	return min(n, len(rr.recs)-rr.pos)
}

func parseU32(rec record, i int, what string) (uint32, error) {
	v, err := strconv.ParseUint(rec.fields[i], 10, 32)
	if err != nil {
		return 0, &ParseError{Line: rec.line, Msg: what, Err: err}
	}
	return uint32(v), nil
}

func parseF64(rec record, i int, what string) (float64, error) {
	v, err := strconv.ParseFloat(rec.fields[i], 64)
	if err != nil {
		return 0, &ParseError{Line: rec.line, Msg: what, Err: err}
	}
	return v, nil
}

func parseNode(rec record) (Node, error) {
	if len(rec.fields) < 2 {
		return Node{}, &ParseError{Line: rec.line, Msg: "node: expected \"<lat> <lon>\""}
	}
	lat, err := parseF64(rec, 0, "node latitude")
	if err != nil {
		return Node{}, err
	}
	lon, err := parseF64(rec, 1, "node longitude")
	if err != nil {
		return Node{}, err
	}
	return Node{Lat: lat, Lon: lon}, nil
}

func parseEdge(rec record) (Edge, error) {
	if len(rec.fields) < 4 {
		return Edge{}, &ParseError{Line: rec.line, Msg: "edge: expected \"<source> <target> <width> <color>\""}
	}
	var e Edge
	var err error
	if e.Source, err = parseU32(rec, 0, "edge source"); err != nil {
		return Edge{}, err
	}
	if e.Target, err = parseU32(rec, 1, "edge target"); err != nil {
		return Edge{}, err
	}
	if e.Width, err = parseU32(rec, 2, "edge width"); err != nil {
		return Edge{}, err
	}
	c, err := strconv.ParseInt(rec.fields[3], 10, 32)
	if err != nil {
		return Edge{}, &ParseError{Line: rec.line, Msg: "edge color", Err: err}
	}
	if c > MaxColorID || c < -MaxColorID {
		return Edge{}, &ParseError{Line: rec.line, Msg: fmt.Sprintf("edge color %d: outside [-%d, %d]", c, MaxColorID, MaxColorID)}
	}
	e.Color = int32(c)
	return e, nil
}

// ParseLineGraph reads the line graph format:
//
//	<node count>
//	<lat> <lon>                          (node count lines)
//	<edge count>
//	<source> <target> <width> <color>    (edge count lines)
//
// The layout with both counts up front (node count, edge count, nodes, edges)
// is accepted too; it is recognised by a single token on the second line.
func ParseLineGraph(r io.Reader) (LineGraph, error) {
	rr, err := readRecords(r)
	if err != nil {
		return LineGraph{}, err
	}
	nodeCount, err := rr.count("node count")
	if err != nil {
		return LineGraph{}, err
	}
	edgeCount := -1
	if rec, ok := rr.peek(); ok && len(rec.fields) == 1 {
		if edgeCount, err = rr.count("edge count"); err != nil {
			return LineGraph{}, err
		}
	}
	g := LineGraph{Nodes: make([]Node, 0, rr.capacity(nodeCount))}
	for i := 0; i < nodeCount; i++ {
		rec, err := rr.next(fmt.Sprintf("node %d of %d", i+1, nodeCount))
		if err != nil {
			return LineGraph{}, err
		}
		n, err := parseNode(rec)
		if err != nil {
			return LineGraph{}, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	if edgeCount < 0 {
		if edgeCount, err = rr.count("edge count"); err != nil {
			return LineGraph{}, err
		}
	}
	g.Edges = make([]Edge, 0, rr.capacity(edgeCount))
	for i := 0; i < edgeCount; i++ {
		rec, err := rr.next(fmt.Sprintf("edge %d of %d", i+1, edgeCount))
		if err != nil {
			return LineGraph{}, err
		}
		e, err := parseEdge(rec)
		if err != nil {
			return LineGraph{}, err
		}
		g.Edges = append(g.Edges, e)
	}
	return g, nil
}

// LoadLineGraph parses a .gl file.
func LoadLineGraph(path string) (LineGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return LineGraph{}, err
	}
	defer f.Close()
	return ParseLineGraph(f)
}

// parseColor reads r g b [a] starting at field i. A missing or unparsable
// alpha defaults to 255.
func parseColor(rec record, i int) (RGBA, error) {
	if len(rec.fields) < i+3 {
		return RGBA{}, &ParseError{Line: rec.line, Msg: "color: expected \"<r> <g> <b> [a]\""}
	}
	var ch [3]uint8
	for k := 0; k < 3; k++ {
		v, err := strconv.ParseUint(rec.fields[i+k], 10, 8)
		if err != nil {
			return RGBA{}, &ParseError{Line: rec.line, Msg: "color channel", Err: err}
		}
		ch[k] = uint8(v)
	}
	c := RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if len(rec.fields) > i+3 {
		if a, err := strconv.ParseUint(rec.fields[i+3], 10, 8); err == nil {
			c.A = uint8(a)
		}
	}
	return c, nil
}

// ParseTriangleGraph reads the triangle graph format: node, edge and triangle
// counts on the first three lines followed by
//
//	<lat> <lon> <r> <g> <b> [a]
//	<source> <target> <r> <g> <b> [a]
//	<v1> <v2> <v3> <r> <g> <b> [a]
func ParseTriangleGraph(r io.Reader) (TriangleGraph, error) {
	rr, err := readRecords(r)
	if err != nil {
		return TriangleGraph{}, err
	}
	nodeCount, err := rr.count("node count")
	if err != nil {
		return TriangleGraph{}, err
	}
	edgeCount, err := rr.count("edge count")
	if err != nil {
		return TriangleGraph{}, err
	}
	triCount, err := rr.count("triangle count")
	if err != nil {
		return TriangleGraph{}, err
	}

	g := TriangleGraph{
		Nodes:     make([]ColorNode, 0, rr.capacity(nodeCount)),
		Edges:     make([]ColorEdge, 0, rr.capacity(edgeCount)),
		Triangles: make([]ColorTriangle, 0, rr.capacity(triCount)),
	}
	for i := 0; i < nodeCount; i++ {
		rec, err := rr.next("node")
		if err != nil {
			return TriangleGraph{}, err
		}
		n, err := parseNode(rec)
		if err != nil {
			return TriangleGraph{}, err
		}
		c, err := parseColor(rec, 2)
		if err != nil {
			return TriangleGraph{}, err
		}
		g.Nodes = append(g.Nodes, ColorNode{Node: n, Color: c})
	}
	for i := 0; i < edgeCount; i++ {
		rec, err := rr.next("edge")
		if err != nil {
			return TriangleGraph{}, err
		}
		if len(rec.fields) < 2 {
			return TriangleGraph{}, &ParseError{Line: rec.line, Msg: "edge: expected \"<source> <target> <r> <g> <b> [a]\""}
		}
		var e ColorEdge
		if e.Source, err = parseU32(rec, 0, "edge source"); err != nil {
			return TriangleGraph{}, err
		}
		if e.Target, err = parseU32(rec, 1, "edge target"); err != nil {
			return TriangleGraph{}, err
		}
		if e.Color, err = parseColor(rec, 2); err != nil {
			return TriangleGraph{}, err
		}
		g.Edges = append(g.Edges, e)
	}
	for i := 0; i < triCount; i++ {
		rec, err := rr.next("triangle")
		if err != nil {
			return TriangleGraph{}, err
		}
		if len(rec.fields) < 3 {
			return TriangleGraph{}, &ParseError{Line: rec.line, Msg: "triangle: expected \"<v1> <v2> <v3> <r> <g> <b> [a]\""}
		}
		var t ColorTriangle
		if t.V1, err = parseU32(rec, 0, "triangle v1"); err != nil {
			return TriangleGraph{}, err
		}
		if t.V2, err = parseU32(rec, 1, "triangle v2"); err != nil {
			return TriangleGraph{}, err
		}
		if t.V3, err = parseU32(rec, 2, "triangle v3"); err != nil {
			return TriangleGraph{}, err
		}
		if t.Color, err = parseColor(rec, 3); err != nil {
			return TriangleGraph{}, err
		}
		g.Triangles = append(g.Triangles, t)
	}
	return g, nil
}

// LoadTriangleGraph parses a .sg file.
func LoadTriangleGraph(path string) (TriangleGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return TriangleGraph{}, err
	}
	defer f.Close()
	return ParseTriangleGraph(f)
}
