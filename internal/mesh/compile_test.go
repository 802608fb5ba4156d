package mesh

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomesh/internal/geom"
)

func TestCompile_SingleEdge(t *testing.T) {
	nodes := []geom.Node{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}}
	edges := []geom.Edge{{Source: 0, Target: 1, Width: 3, Color: 7}}

	m, err := Compile(nodes, edges)
	require.NoError(t, err)

	want := &LineMesh{
		Vertices: []Vertex{
			{Longitude: 0, Latitude: 0, Color: 7},
			{Longitude: 0, Latitude: 1, Color: 7},
		},
		Indices:      []uint32{0, 1},
		BatchOffsets: []uint32{0, 2},
		BatchWidths:  []uint32{3},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_SplitsNodeOnColorChange(t *testing.T) {
	nodes := []geom.Node{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}, {Lat: 2, Lon: 0}}
	edges := []geom.Edge{
		{Source: 0, Target: 1, Width: 1, Color: 1},
		{Source: 1, Target: 2, Width: 1, Color: 2},
	}

	m, err := Compile(nodes, edges)
	require.NoError(t, err)
	require.Len(t, m.Vertices, 4)

	// first edge: A and the color 1 instance of B
	a, b1 := m.Segment(0)
	assert.Equal(t, Vertex{Longitude: 0, Latitude: 0, Color: 1}, a)
	assert.Equal(t, Vertex{Longitude: 0, Latitude: 1, Color: 1}, b1)

	// second edge: the color 2 copy of B and C
	b2, c := m.Segment(1)
	assert.Equal(t, Vertex{Longitude: 0, Latitude: 1, Color: 2}, b2)
	assert.Equal(t, Vertex{Longitude: 0, Latitude: 2, Color: 2}, c)
	assert.NotEqual(t, m.Indices[1], m.Indices[2], "B must be represented by two vertices")
	assert.Equal(t, []uint32{0, 1, 3, 2}, m.Indices)
}

func TestCompile_ReusesExistingColorInstance(t *testing.T) {
	// B sees colors 1, 2, 1, 2: only two vertices for B, no re-duplication.
	nodes := []geom.Node{{Lon: 0}, {Lon: 1}, {Lon: 2}, {Lon: 3}, {Lon: 4}}
	edges := []geom.Edge{
		{Source: 1, Target: 0, Width: 1, Color: 1},
		{Source: 1, Target: 2, Width: 1, Color: 2},
		{Source: 1, Target: 3, Width: 1, Color: 1},
		{Source: 4, Target: 1, Width: 1, Color: 2},
	}
	m, err := Compile(nodes, edges)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 6)
	assert.Equal(t, m.Indices[0], m.Indices[4], "color 1 instance of B is reused")
	assert.Equal(t, m.Indices[2], m.Indices[7], "color 2 instance of B is reused")
}

func TestCompile_BatchesByWidthStable(t *testing.T) {
	widths := []uint32{5, 5, 2, 2, 2, 5}
	var nodes []geom.Node
	var edges []geom.Edge
	for i, w := range widths {
		nodes = append(nodes, geom.Node{Lat: float64(i), Lon: 0}, geom.Node{Lat: float64(i), Lon: 1})
		edges = append(edges, geom.Edge{Source: uint32(2 * i), Target: uint32(2*i + 1), Width: w, Color: 0})
	}

	m, err := Compile(nodes, edges)
	require.NoError(t, err)

	assert.Equal(t, []uint32{2, 5}, m.BatchWidths)
	assert.Equal(t, []uint32{0, 6, 12}, m.BatchOffsets)
	// equal widths keep input order: edges 2,3,4 then 0,1,5
	assert.Equal(t, []uint32{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 10, 11}, m.Indices)
	assert.Equal(t, []Batch{{Start: 0, End: 6, Width: 2}, {Start: 6, End: 12, Width: 5}}, m.Batches())
}

func TestCompile_DoesNotMutateInput(t *testing.T) {
	nodes := []geom.Node{{Lon: 0}, {Lon: 1}}
	edges := []geom.Edge{
		{Source: 0, Target: 1, Width: 9, Color: 1},
		{Source: 1, Target: 0, Width: 1, Color: 1},
	}
	before := append([]geom.Edge(nil), edges...)
	_, err := Compile(nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, before, edges)
}

func TestCompile_Empty(t *testing.T) {
	m, err := Compile(nil, nil)
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.Equal(t, []uint32{0}, m.BatchOffsets)
	assert.Empty(t, m.BatchWidths)
	assert.Empty(t, m.Batches())

	// nodes without edges keep their unassigned vertex
	m, err = Compile([]geom.Node{{Lat: 1, Lon: 2}}, nil)
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.Equal(t, []Vertex{{Longitude: 2, Latitude: 1, Color: Unassigned}}, m.Vertices)
}

func TestCompile_ZeroWidthFirstBatch(t *testing.T) {
	nodes := []geom.Node{{Lon: 0}, {Lon: 1}}
	edges := []geom.Edge{{Source: 0, Target: 1, Width: 0, Color: 3}}
	m, err := Compile(nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, m.BatchOffsets)
	assert.Equal(t, []uint32{0}, m.BatchWidths)
}

func TestCompile_IndexOutOfRange(t *testing.T) {
	nodes := []geom.Node{{Lon: 0}, {Lon: 1}}
	edges := []geom.Edge{
		{Source: 0, Target: 1, Width: 1, Color: 1},
		{Source: 1, Target: 2, Width: 1, Color: 1},
	}
	m, err := Compile(nodes, edges)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	var ie *IndexOutOfRangeError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Item)
	assert.Equal(t, uint32(2), ie.Index)
	assert.Equal(t, 2, ie.Nodes)
}

func TestBatch_LineWidth(t *testing.T) {
	assert.Equal(t, 1.0, Batch{Width: 3}.LineWidth(0.1))
	assert.Equal(t, 6.0, Batch{Width: 3}.LineWidth(2))
	assert.Equal(t, 1.0, Batch{Width: 0}.LineWidth(5))
}

// TestCompile_Invariants checks the mesh properties on random graphs.
func TestCompile_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		nodeCount := 1 + rng.Intn(30)
		nodes := make([]geom.Node, nodeCount)
		for i := range nodes {
			nodes[i] = geom.Node{Lat: float64(i), Lon: float64(-i) / 2}
		}
		edges := make([]geom.Edge, rng.Intn(80))
		for i := range edges {
			edges[i] = geom.Edge{
				Source: uint32(rng.Intn(nodeCount)),
				Target: uint32(rng.Intn(nodeCount)),
				Width:  uint32(rng.Intn(4)),
				Color:  int32(rng.Intn(5)),
			}
		}

		m, err := Compile(nodes, edges)
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(m.Vertices), len(nodes))
		require.Len(t, m.Indices, 2*len(edges))
		require.Len(t, m.BatchOffsets, len(m.BatchWidths)+1)
		require.Equal(t, uint32(0), m.BatchOffsets[0])
		require.Equal(t, uint32(len(m.Indices)), m.BatchOffsets[len(m.BatchOffsets)-1])
		for i := 1; i < len(m.BatchOffsets); i++ {
			require.LessOrEqual(t, m.BatchOffsets[i-1], m.BatchOffsets[i])
		}
		for i := 1; i < len(m.BatchWidths); i++ {
			require.Less(t, m.BatchWidths[i-1], m.BatchWidths[i])
		}

		// colors per node, following the input edges
		colors := make([]map[int32]bool, nodeCount)
		for i := range colors {
			colors[i] = map[int32]bool{}
		}
		for _, e := range edges {
			colors[e.Source][e.Color] = true
			colors[e.Target][e.Color] = true
		}

		// every index pair carries the color of its edge and the node's position
		sorted := append([]geom.Edge(nil), edges...)
		sortStable(sorted)
		for i, e := range sorted {
			src, tgt := m.Segment(i)
			require.Equal(t, float32(e.Color), src.Color)
			require.Equal(t, float32(e.Color), tgt.Color)
			require.Equal(t, float32(nodes[e.Source].Lat), src.Latitude)
			require.Equal(t, float32(nodes[e.Target].Lat), tgt.Latitude)
		}

		// a node with k colors has exactly k vertices with distinct colors
		perNode := map[float32]map[float32]int{}
		for _, v := range m.Vertices {
			if perNode[v.Latitude] == nil {
				perNode[v.Latitude] = map[float32]int{}
			}
			perNode[v.Latitude][v.Color]++
		}
		for i, n := range nodes {
			got := perNode[float32(n.Lat)]
			want := len(colors[i])
			if want == 0 {
				require.Equal(t, map[float32]int{Unassigned: 1}, got)
				continue
			}
			require.Len(t, got, want)
			for c, count := range got {
				require.True(t, colors[i][int32(c)])
				require.Equal(t, 1, count)
			}
		}
	}
}

func sortStable(edges []geom.Edge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j].Width < edges[j-1].Width; j-- {
			edges[j], edges[j-1] = edges[j-1], edges[j]
		}
	}
}
