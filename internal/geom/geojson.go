package geom

import (
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// LoadGeoJSONBoundaries reads Polygon and MultiPolygon outer rings from a
// GeoJSON file. Accepts a FeatureCollection, a single Feature or a bare
// geometry. Holes are dropped.
func LoadGeoJSONBoundaries(path string) ([]Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSONBoundaries(data)
}

// ParseGeoJSONBoundaries is LoadGeoJSONBoundaries for in-memory documents.
func ParseGeoJSONBoundaries(data []byte) ([]Boundary, error) {
	var geoms []*geojson.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geoms = append(geoms, f.Geometry)
			}
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Type == "Feature" {
		if f.Geometry != nil {
			geoms = append(geoms, f.Geometry)
		}
	} else {
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		geoms = append(geoms, g)
	}

	var out []Boundary
	var walk func(g *geojson.Geometry) error
	addPolygon := func(rings [][][]float64) error {
		if len(rings) == 0 {
			return nil
		}
		b, err := normalizeRing(toPairs(rings[0]))
		if err != nil {
			return fmt.Errorf("geojson polygon %d: %w", len(out), err)
		}
		out = append(out, b)
		return nil
	}
	walk = func(g *geojson.Geometry) error {
		switch g.Type {
		case geojson.GeometryPolygon:
			return addPolygon(g.Polygon)
		case geojson.GeometryMultiPolygon:
			for _, p := range g.MultiPolygon {
				if err := addPolygon(p); err != nil {
					return err
				}
			}
		case geojson.GeometryCollection:
			for _, sub := range g.Geometries {
				if err := walk(sub); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, g := range geoms {
		if err := walk(g); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, errors.New("geojson: no polygons found")
	}
	return out, nil
}

func toPairs(coords [][]float64) [][2]float64 {
	out := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		out = append(out, [2]float64{c[0], c[1]})
	}
	return out
}
