// Package mesh turns graph and polygon records into GPU-ready vertex and index
// buffers.
//
// Compile builds a line mesh from a node/edge graph. A node touched by edges of
// several colors is split into one vertex per color so that every edge can be
// drawn with per-vertex color attributes, and edges are grouped into contiguous
// index ranges of equal width so a renderer can issue one line draw per width.
//
// Triangulate clips ears off a simple counter-clockwise polygon boundary and
// returns N-2 index triples into that boundary.
//
// Everything in this package is a pure function of its inputs. Each call
// allocates its own scratch state, so independent datasets may be compiled
// from different goroutines.
package mesh
