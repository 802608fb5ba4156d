// Package loader turns graph and polygon files into a renderable Scene.
//
// Every file is parsed and compiled on its own goroutine. Results are merged
// in argument order once all of them succeeded, so the scene never depends on
// scheduling and a failed load leaves the target scene untouched.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"geomesh/internal/config"
	"geomesh/internal/ctxlog"
	"geomesh/internal/geom"
	"geomesh/internal/mesh"
)

// Kind is the content type of an input file.
type Kind string

const (
	KindLineGraph     Kind = "gl"
	KindTriangleGraph Kind = "sg"
	KindPolygons      Kind = "poly"
)

// KindOf detects the kind of path. A non-empty format overrides the extension.
func KindOf(path, format string) (Kind, error) {
	switch format {
	case "gl":
		return KindLineGraph, nil
	case "sg":
		return KindTriangleGraph, nil
	case "poly":
		return KindPolygons, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gl":
		return KindLineGraph, nil
	case ".sg":
		return KindTriangleGraph, nil
	case ".geojson", ".json", ".kml", ".csv", ".wkt":
		return KindPolygons, nil
	}
	return "", fmt.Errorf("cannot detect format of %s, use -f gl|sg|poly", path)
}

// Supported reports whether the extension of path can be loaded without a
// format override.
func Supported(path string) bool {
	_, err := KindOf(path, "")
	return err == nil
}

// Source is one file to load.
type Source struct {
	Name   string
	Path   string
	Format string
	Layer  int
	Hidden bool
	Fill   int
}

// Sources lists the configured layers and polygons followed by paths.
func Sources(cfg *config.Config, paths []string) []Source {
	var out []Source
	for _, l := range cfg.Layers {
		out = append(out, Source{Name: l.Name, Path: l.Path, Layer: l.Layer, Hidden: !l.IsVisible(), Fill: mesh.DefaultFill})
	}
	for _, p := range cfg.Polygons {
		fill := mesh.DefaultFill
		if p.Fill != nil {
			fill = *p.Fill
		}
		out = append(out, Source{Name: p.Name, Path: p.Path, Format: string(KindPolygons), Fill: fill})
	}
	for _, p := range paths {
		out = append(out, Source{Name: filepath.Base(p), Path: p, Format: cfg.Format, Fill: mesh.DefaultFill})
	}
	return out
}

// Load builds a scene from the configuration and the given paths.
func Load(ctx context.Context, cfg *config.Config, paths ...string) (*Scene, error) {
	s := NewScene()
	if err := LoadInto(ctx, s, Sources(cfg, paths)...); err != nil {
		return nil, err
	}
	return s, nil
}

// part is the compiled content of one source.
type part struct {
	sub   *Subgraph
	tri   *TriangleLayer
	polys *mesh.PolygonSet
	name  string
}

// LoadInto loads srcs concurrently and appends them to s in order. On error
// s is not modified.
func LoadInto(ctx context.Context, s *Scene, srcs ...Source) error {
	logger := ctxlog.FromContext(ctx)
	parts := make([]part, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			p, err := loadSource(src)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Path, err)
			}
			parts[i] = p
			logPart(logger, src, p, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Loading failed.", "error", err)
		return err
	}

	for _, p := range parts {
		switch {
		case p.sub != nil:
			s.addCompiled(p.sub)
		case p.tri != nil:
			s.addTriangles(p.tri)
		case p.polys != nil:
			s.AddPolygonSet(p.name, p.polys)
		}
	}
	bb, _ := s.Bounds()
	logger.Info("Scene loaded.", "sources", len(srcs), "subgraphs", len(s.Subgraphs),
		"triangle_graphs", len(s.Triangles), "polygons", s.Polygons.Len(),
		"bbox", fmt.Sprintf("[%.5f %.5f %.5f %.5f]", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY))
	return nil
}

func loadSource(src Source) (part, error) {
	kind, err := KindOf(src.Path, src.Format)
	if err != nil {
		return part{}, err
	}
	switch kind {
	case KindLineGraph:
		g, err := geom.LoadLineGraph(src.Path)
		if err != nil {
			return part{}, err
		}
		m, err := mesh.Compile(g.Nodes, g.Edges)
		if err != nil {
			return part{}, err
		}
		return part{sub: &Subgraph{
			Name: src.Name, Path: src.Path, Layer: src.Layer, Visible: !src.Hidden,
			Mesh: m, Nodes: len(g.Nodes), Edges: len(g.Edges),
		}}, nil
	case KindTriangleGraph:
		g, err := geom.LoadTriangleGraph(src.Path)
		if err != nil {
			return part{}, err
		}
		m, err := mesh.CompileTriangleGraph(g)
		if err != nil {
			return part{}, err
		}
		return part{tri: &TriangleLayer{Name: src.Name, Path: src.Path, Mesh: m}}, nil
	default:
		bs, err := loadBoundaries(src.Path)
		if err != nil {
			return part{}, err
		}
		ps := mesh.NewPolygonSet()
		for i, b := range bs {
			if err := ps.Add(b, src.Fill); err != nil {
				return part{}, fmt.Errorf("polygon %d: %w", i, err)
			}
		}
		return part{polys: ps, name: src.Name}, nil
	}
}

// loadBoundaries dispatches on the extension; anything unknown is read as WKT.
func loadBoundaries(path string) ([]geom.Boundary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return geom.LoadGeoJSONBoundaries(path)
	case ".kml":
		return geom.LoadKMLBoundaries(path)
	case ".csv":
		b, err := geom.LoadCSVBoundary(path)
		if err != nil {
			return nil, err
		}
		return []geom.Boundary{b}, nil
	default:
		return geom.LoadWKTBoundaries(path)
	}
}

func logPart(l *slog.Logger, src Source, p part, elapsed time.Duration) {
	switch {
	case p.sub != nil:
		l.Debug("Line graph compiled.", "path", src.Path, "kind", KindLineGraph,
			"vertices", len(p.sub.Mesh.Vertices), "indices", len(p.sub.Mesh.Indices),
			"batches", len(p.sub.Mesh.BatchWidths), "elapsed", elapsed)
	case p.tri != nil:
		l.Debug("Triangle graph compiled.", "path", src.Path, "kind", KindTriangleGraph,
			"vertices", len(p.tri.Mesh.NodeVertices), "triangles", p.tri.Mesh.Triangles(), "elapsed", elapsed)
	case p.polys != nil:
		l.Debug("Polygons triangulated.", "path", src.Path, "kind", KindPolygons,
			"polygons", p.polys.Len(), "indices", len(p.polys.Indices), "elapsed", elapsed)
	}
}
