package geom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNormalizeRing(t *testing.T) {
	t.Run("drops closing point and duplicates", func(t *testing.T) {
		b, err := normalizeRing([][2]float64{{0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}})
		require.NoError(t, err)
		assert.Equal(t, Boundary{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}}, b)
	})

	t.Run("reverses clockwise rings", func(t *testing.T) {
		b, err := normalizeRing([][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}})
		require.NoError(t, err)
		assert.Equal(t, Boundary{{Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}, {Lon: 0, Lat: 0}}, b)
		assert.InDelta(t, 1.0, b.SignedArea(), 1e-12)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := normalizeRing([][2]float64{{0, 0}, {1, 1}, {0, 0}})
		assert.ErrorIs(t, err, ErrShortRing)
	})
}

func TestParseGeoJSONBoundaries(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  int
	}{
		{
			name: "feature collection",
			input: `{"type":"FeatureCollection","features":[
				{"type":"Feature","properties":{"name":"a"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}},
				{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[5,5]}},
				{"type":"Feature","properties":{},"geometry":{"type":"MultiPolygon","coordinates":[
					[[[10,10],[11,10],[11,11],[10,10]]],
					[[[20,20],[20,21],[21,21],[20,20]]]
				]}}
			]}`,
			want: 3,
		},
		{
			name:  "single feature",
			input: `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]],[[0.5,0.5],[1,0.5],[1,1],[0.5,0.5]]]}}`,
			want:  1,
		},
		{
			name:  "bare geometry",
			input: `{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,1],[0,0]]]}`,
			want:  1,
		},
		{
			name:  "geometry collection",
			input: `{"type":"GeometryCollection","geometries":[{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,1],[0,0]]]},{"type":"LineString","coordinates":[[0,0],[1,1]]}]}`,
			want:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseGeoJSONBoundaries([]byte(tc.input))
			require.NoError(t, err)
			require.Len(t, got, tc.want)
			for _, b := range got {
				assert.Greater(t, b.SignedArea(), 0.0)
				assert.NotEqual(t, b[0], b[len(b)-1])
			}
		})
	}
}

func TestParseGeoJSONBoundaries_Errors(t *testing.T) {
	_, err := ParseGeoJSONBoundaries([]byte(`{"type":"Point","coordinates":[1,2]}`))
	assert.ErrorContains(t, err, "no polygons")

	_, err = ParseGeoJSONBoundaries([]byte(`not json`))
	assert.ErrorContains(t, err, "geojson")

	_, err = ParseGeoJSONBoundaries([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`))
	assert.ErrorIs(t, err, ErrShortRing)
}

func TestLoadKMLBoundaries(t *testing.T) {
	path := writeFile(t, "parks.kml", `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>
        0,0,0 0,1,0 1,1,0 1,0,0 0,0,0
      </coordinates></LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
    <Folder>
      <Placemark>
        <MultiGeometry>
          <Polygon><outerBoundaryIs><LinearRing><coordinates>5,5 6,5 6,6 5,5</coordinates></LinearRing></outerBoundaryIs></Polygon>
        </MultiGeometry>
      </Placemark>
    </Folder>
  </Document>
</kml>`)

	got, err := LoadKMLBoundaries(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0], 4)
	assert.Greater(t, got[0].SignedArea(), 0.0, "clockwise ring must be reversed")
	assert.Equal(t, Node{Lon: 5, Lat: 5}, got[1][0])
}

func TestLoadKMLBoundaries_NoPolygons(t *testing.T) {
	path := writeFile(t, "empty.kml", `<kml><Document><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></Document></kml>`)
	_, err := LoadKMLBoundaries(path)
	assert.ErrorContains(t, err, "no polygons")
}

func TestLoadCSVBoundary(t *testing.T) {
	path := writeFile(t, "ring.csv", "name,Latitude,Longitude\na,0,0\nb,0,2\nc,2,2\nd,2,0\n")
	b, err := LoadCSVBoundary(path)
	require.NoError(t, err)
	assert.Len(t, b, 4)
	assert.Greater(t, b.SignedArea(), 0.0)

	bad := writeFile(t, "bad.csv", "lat,lon\n0,0\nx,1\n")
	_, err = LoadCSVBoundary(bad)
	assert.ErrorContains(t, err, "csv row 3")

	noCols := writeFile(t, "nocols.csv", "a,b\n1,2\n")
	_, err = LoadCSVBoundary(noCols)
	assert.ErrorContains(t, err, "columns not found")
}

func TestParseWKTBoundaries(t *testing.T) {
	got, err := ParseWKTBoundaries("POLYGON ((0 0, 4 0, 4 4, 0 4, 0 0), (1 1, 2 1, 2 2, 1 1))")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Boundary{{Lon: 0, Lat: 0}, {Lon: 4, Lat: 0}, {Lon: 4, Lat: 4}, {Lon: 0, Lat: 4}}, got[0])

	got, err = ParseWKTBoundaries("multipolygon(((0 0, 1 0, 1 1, 0 0)), ((5 5, 5 6, 6 6, 5 5)))")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Greater(t, got[1].SignedArea(), 0.0)

	_, err = ParseWKTBoundaries("LINESTRING (0 0, 1 1)")
	assert.Error(t, err)

	_, err = ParseWKTBoundaries("  ")
	assert.Error(t, err)
}

func TestLoadWKTBoundaries(t *testing.T) {
	path := writeFile(t, "area.wkt", "POLYGON((0 0, 1 0, 0 1, 0 0))\n")
	got, err := LoadWKTBoundaries(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
