package geom

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineGraph(t *testing.T) {
	want := LineGraph{
		Nodes: []Node{{Lat: 48.1, Lon: 11.5}, {Lat: 48.2, Lon: 11.6}, {Lat: 48.3, Lon: 11.4}},
		Edges: []Edge{
			{Source: 0, Target: 1, Width: 2, Color: 1},
			{Source: 1, Target: 2, Width: 4, Color: -3},
		},
	}

	testCases := []struct {
		name  string
		input string
	}{
		{
			name: "counts before each section",
			input: `3
48.1 11.5
48.2 11.6
48.3 11.4
2
0 1 2 1
1 2 4 -3
`,
		},
		{
			name: "counts in header",
			input: `3
2
48.1 11.5
48.2 11.6
48.3 11.4
0 1 2 1
1 2 4 -3`,
		},
		{
			name: "comments and blank lines",
			input: `# exported roads
3

48.1 11.5
   48.2 11.6
# last node
48.3 11.4
2
0 1 2 1

1 2 4 -3
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLineGraph(strings.NewReader(tc.input))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ParseLineGraph() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLineGraph_Empty(t *testing.T) {
	g, err := ParseLineGraph(strings.NewReader("0\n0\n"))
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestParseLineGraph_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{"missing count", "", 1, "node count"},
		{"bad latitude", "1\nabc 11\n0\n", 2, "node latitude"},
		{"short node", "2\n1 2\n48\n0\n", 3, "node"},
		{"truncated nodes", "3\n1 2\n3 4\n", 4, "node 3 of 3"},
		{"bad width", "2\n1 2\n3 4\n1\n0 1 wide 1\n", 5, "edge width"},
		{"negative source", "2\n1 2\n3 4\n1\n-1 1 1 1\n", 5, "edge source"},
		{"short edge", "2\n1 2\n3 4\n1\n0 1 1\n", 5, "edge"},
		{"oversized node count", "4294967295\n0 0\n", 3, "node 2 of 4294967295"},
		{"oversized edge count", "1\n0 0\n4294967295\n0 0 1 1\n", 5, "edge 2 of 4294967295"},
		{"color too large", "2\n1 2\n3 4\n1\n0 1 1 16777217\n", 5, "edge color 16777217"},
		{"color too small", "2\n1 2\n3 4\n1\n0 1 1 -16777217\n", 5, "edge color"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLineGraph(strings.NewReader(tc.input))
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tc.wantLine, pe.Line)
			assert.Contains(t, pe.Error(), tc.wantMsg)
		})
	}
}

func TestParseLineGraph_WrapsStrconvError(t *testing.T) {
	_, err := ParseLineGraph(strings.NewReader("1\n1 x\n0\n"))
	var ne *strconv.NumError
	assert.True(t, errors.As(err, &ne))
}

func TestLoadLineGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.gl")
	require.NoError(t, os.WriteFile(path, []byte("2\n0 0\n1 1\n1\n0 1 1 5\n"), 0o600))

	g, err := LoadLineGraph(path)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, []Edge{{Source: 0, Target: 1, Width: 1, Color: 5}}, g.Edges)

	_, err = LoadLineGraph(filepath.Join(t.TempDir(), "missing.gl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseTriangleGraph(t *testing.T) {
	input := `3
2
1
# nodes
0 0 255 0 0
0 1 0 255 0 128
1 0 0 0 255 x
0 1 10 20 30
1 2 40 50 60 70
0 1 2 1 2 3
`
	g, err := ParseTriangleGraph(strings.NewReader(input))
	require.NoError(t, err)

	want := TriangleGraph{
		Nodes: []ColorNode{
			{Node: Node{Lat: 0, Lon: 0}, Color: RGBA{R: 255, A: 255}},
			{Node: Node{Lat: 0, Lon: 1}, Color: RGBA{G: 255, A: 128}},
			{Node: Node{Lat: 1, Lon: 0}, Color: RGBA{B: 255, A: 255}},
		},
		Edges: []ColorEdge{
			{Source: 0, Target: 1, Color: RGBA{R: 10, G: 20, B: 30, A: 255}},
			{Source: 1, Target: 2, Color: RGBA{R: 40, G: 50, B: 60, A: 70}},
		},
		Triangles: []ColorTriangle{{V1: 0, V2: 1, V3: 2, Color: RGBA{R: 1, G: 2, B: 3, A: 255}}},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("ParseTriangleGraph() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTriangleGraph_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"missing triangle count", "1\n0\n", 3},
		{"channel out of range", "1\n0\n0\n0 0 256 0 0\n", 4},
		{"missing color", "1\n0\n0\n0 0 1 2\n", 4},
		{"short triangle", "3\n0\n1\n0 0 1 1 1\n0 1 1 1 1\n1 0 1 1 1\n0 1\n", 7},
		{"oversized counts", "4294967295\n4294967295\n4294967295\n0 0 1 1 1\n", 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTriangleGraph(strings.NewReader(tc.input))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.wantLine, pe.Line)
		})
	}
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	bb, ok := BoundsOf([]Node{{Lat: 1, Lon: -2}, {Lat: -3, Lon: 4}, {Lat: 0, Lon: 0}})
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: -2, MinY: -3, MaxX: 4, MaxY: 1}, bb)
	assert.True(t, bb.Valid())

	u := bb.Union(BBox{MinX: 10, MinY: 10, MaxX: 11, MaxY: 12})
	assert.Equal(t, BBox{MinX: -2, MinY: -3, MaxX: 11, MaxY: 12}, u)
}

func TestParseLineGraph_ColorLimit(t *testing.T) {
	g, err := ParseLineGraph(strings.NewReader("2\n1 2\n3 4\n2\n0 1 1 16777216\n1 0 1 -16777216\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(MaxColorID), g.Edges[0].Color)
	assert.Equal(t, int32(-MaxColorID), g.Edges[1].Color)
}
