package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKMLBoundaries extracts polygon outer rings from a KML file
// (Placemark > Polygon|MultiGeometry > outerBoundaryIs > LinearRing > coordinates).
// KML coordinates are "lon,lat[,alt]"; we ignore altitude.
func LoadKMLBoundaries(path string) ([]Boundary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	type kmlRing struct {
		Coordinates string `xml:"LinearRing>coordinates"`
	}
	type kmlPolygon struct {
		Outer kmlRing `xml:"outerBoundaryIs"`
	}
	type kmlPlacemark struct {
		Polygons []kmlPolygon `xml:"Polygon"`
		Multi    []kmlPolygon `xml:"MultiGeometry>Polygon"`
	}
	type kmlDoc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Document   []kmlPlacemark `xml:"Document>Placemark"`
		Folders    []kmlPlacemark `xml:"Document>Folder>Placemark"`
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var out []Boundary
	all := append(append(doc.Placemarks, doc.Document...), doc.Folders...)
	for _, pm := range all {
		for _, poly := range append(pm.Polygons, pm.Multi...) {
			b, err := normalizeRing(parseKMLCoordinates(poly.Outer.Coordinates))
			if err != nil {
				return nil, fmt.Errorf("kml polygon %d: %w", len(out), err)
			}
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("kml: no polygons found")
	}
	return out, nil
}

func parseKMLCoordinates(s string) [][2]float64 {
	var ring [][2]float64
	// tuples are separated by whitespace
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ring = append(ring, [2]float64{lon, lat})
	}
	return ring
}
