package geom

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseWKTBoundaries parses POLYGON((...)) and MULTIPOLYGON(((...)),...) and
// returns the outer ring of every polygon. Inner rings are ignored.
func ParseWKTBoundaries(wkt string) ([]Boundary, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	var polys []string
	switch {
	case strings.HasPrefix(up, "MULTIPOLYGON"):
		i := strings.Index(s, "(((")
		j := strings.LastIndex(s, ")))")
		if i < 0 || j <= i {
			return nil, errors.New("wkt multipolygon: invalid")
		}
		body := normalizeSeparators(s[i+1 : j+2])
		polys = strings.Split(body, ")),((")
	case strings.HasPrefix(up, "POLYGON"):
		i := strings.Index(s, "((")
		j := strings.LastIndex(s, "))")
		if i < 0 || j <= i {
			return nil, errors.New("wkt polygon: invalid")
		}
		polys = []string{s[i : j+2]}
	default:
		return nil, errors.New("unsupported wkt type, expected POLYGON or MULTIPOLYGON")
	}
	out := make([]Boundary, 0, len(polys))
	for _, p := range polys {
		p = strings.Trim(strings.TrimSpace(p), "()")
		// outer ring only
		ringsNorm := normalizeSeparators(p)
		outer := strings.Split(ringsNorm, "),(")[0]
		b, err := normalizeRing(parseTuples(outer))
		if err != nil {
			return nil, fmt.Errorf("wkt polygon %d: %w", len(out), err)
		}
		out = append(out, b)
	}
	return out, nil
}

// LoadWKTBoundaries reads a .wkt file.
func LoadWKTBoundaries(path string) ([]Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWKTBoundaries(string(data))
}

func normalizeSeparators(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, ", (", ",(")
	s = strings.ReplaceAll(s, ") ,", "),")
	return s
}

func parseTuples(block string) [][2]float64 {
	var out [][2]float64
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.Trim(strings.TrimSpace(tup), "()"))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, [2]float64{x, y})
	}
	return out
}
