/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"sort"

	"github.com/unidoc/pdflayout/internal/geom"
)

// EdgesFromShapes derives Lattice/LatticeStrict edges from materialized
// shapes: one Edge per Line, and (when includeRects is set) four Edges
// per Rect — its top, bottom, left, and right sides.
func EdgesFromShapes(lines []geom.Line, rects []geom.Rect, includeRects bool) []Edge {
	edges := make([]Edge, 0, len(lines)+4*len(rects))
	for _, l := range lines {
		edges = append(edges, Edge{
			X0: l.BBox.X0, Top: l.BBox.Top, X1: l.BBox.X1, Bottom: l.BBox.Bottom,
			Orientation: l.Orientation, Source: EdgeSourceLine,
		})
	}
	if includeRects {
		for _, r := range rects {
			b := r.BBox
			edges = append(edges,
				Edge{X0: b.X0, Top: b.Top, X1: b.X1, Bottom: b.Top, Orientation: geom.Horizontal, Source: EdgeSourceRect},
				Edge{X0: b.X0, Top: b.Bottom, X1: b.X1, Bottom: b.Bottom, Orientation: geom.Horizontal, Source: EdgeSourceRect},
				Edge{X0: b.X0, Top: b.Top, X1: b.X0, Bottom: b.Bottom, Orientation: geom.Vertical, Source: EdgeSourceRect},
				Edge{X0: b.X1, Top: b.Top, X1: b.X1, Bottom: b.Bottom, Orientation: geom.Vertical, Source: EdgeSourceRect},
			)
		}
	}
	return edges
}

// FilterByLength drops edges shorter than minLength.
func FilterByLength(edges []Edge, minLength float64) []Edge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.length() >= minLength {
			out = append(out, e)
		}
	}
	return out
}

// SnapEdges clusters horizontal edges by y-coordinate (within
// snapYTolerance) and vertical edges by x-coordinate (within
// snapXTolerance), replacing every edge in a cluster with the cluster's
// mean coordinate. Diagonal edges pass through unchanged. This does not
// merge edges, only aligns them.
func SnapEdges(edges []Edge, snapXTolerance, snapYTolerance float64) []Edge {
	var horiz, vert, diag []Edge
	for _, e := range edges {
		switch e.Orientation {
		case geom.Horizontal:
			horiz = append(horiz, e)
		case geom.Vertical:
			vert = append(vert, e)
		default:
			diag = append(diag, e)
		}
	}

	snapGroup(horiz, snapYTolerance,
		func(e Edge) float64 { return e.Top },
		func(e *Edge, v float64) { e.Top, e.Bottom = v, v })
	snapGroup(vert, snapXTolerance,
		func(e Edge) float64 { return e.X0 },
		func(e *Edge, v float64) { e.X0, e.X1 = v, v })

	out := make([]Edge, 0, len(edges))
	out = append(out, diag...)
	out = append(out, horiz...)
	out = append(out, vert...)
	return out
}

func snapGroup(edges []Edge, tolerance float64, key func(Edge) float64, set func(*Edge, float64)) {
	if len(edges) == 0 {
		return
	}
	sort.SliceStable(edges, func(i, j int) bool { return key(edges[i]) < key(edges[j]) })

	start := 0
	for i := 1; i <= len(edges); i++ {
		endOfCluster := i == len(edges) || absf(key(edges[i])-key(edges[start])) > tolerance
		if endOfCluster {
			sum := 0.0
			for j := start; j < i; j++ {
				sum += key(edges[j])
			}
			mean := sum / float64(i-start)
			for j := start; j < i; j++ {
				set(&edges[j], mean)
			}
			start = i
		}
	}
}

// JoinEdgeGroup merges collinear edge segments whose gap is within
// joinXTolerance (for horizontals, merging along x) or joinYTolerance
// (for verticals, merging along y). Diagonal edges pass through
// unchanged.
func JoinEdgeGroup(edges []Edge, joinXTolerance, joinYTolerance float64) []Edge {
	var horiz, vert, diag []Edge
	for _, e := range edges {
		switch e.Orientation {
		case geom.Horizontal:
			horiz = append(horiz, e)
		case geom.Vertical:
			vert = append(vert, e)
		default:
			diag = append(diag, e)
		}
	}

	out := make([]Edge, 0, len(edges))
	out = append(out, diag...)
	out = append(out, joinCollinear(horiz,
		func(e Edge) float64 { return e.Top },
		func(e Edge) (float64, float64) { return e.X0, e.X1 },
		func(proto Edge, start, end float64) Edge {
			return Edge{X0: start, Top: proto.Top, X1: end, Bottom: proto.Bottom, Orientation: proto.Orientation, Source: proto.Source}
		},
		joinXTolerance)...)
	out = append(out, joinCollinear(vert,
		func(e Edge) float64 { return e.X0 },
		func(e Edge) (float64, float64) { return e.Top, e.Bottom },
		func(proto Edge, start, end float64) Edge {
			return Edge{X0: proto.X0, Top: start, X1: proto.X1, Bottom: end, Orientation: proto.Orientation, Source: proto.Source}
		},
		joinYTolerance)...)
	return out
}

const collinearEpsilon = 1e-9

func joinCollinear(edges []Edge, key func(Edge) float64, span func(Edge) (float64, float64), build func(Edge, float64, float64) Edge, tolerance float64) []Edge {
	if len(edges) == 0 {
		return nil
	}
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return ki < kj
		}
		si, _ := span(sorted[i])
		sj, _ := span(sorted[j])
		return si < sj
	})

	var result []Edge
	i := 0
	for i < len(sorted) {
		groupKey := key(sorted[i])
		j := i + 1
		for j < len(sorted) && absf(key(sorted[j])-groupKey) < collinearEpsilon {
			j++
		}

		curStart, curEnd := span(sorted[i])
		protoIdx := i
		for k := i + 1; k < j; k++ {
			s, e := span(sorted[k])
			if s <= curEnd+tolerance {
				if e > curEnd {
					curEnd = e
				}
			} else {
				result = append(result, build(sorted[protoIdx], curStart, curEnd))
				curStart, curEnd = s, e
				protoIdx = k
			}
		}
		result = append(result, build(sorted[protoIdx], curStart, curEnd))
		i = j
	}
	return result
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ExplicitLinesToEdges converts caller-supplied coordinates into edges
// spanning the grid's full extent.
func ExplicitLinesToEdges(lines ExplicitLines) []Edge {
	if len(lines.HorizontalLines) == 0 || len(lines.VerticalLines) == 0 {
		return nil
	}
	minX, maxX := minMax(lines.VerticalLines)
	minY, maxY := minMax(lines.HorizontalLines)

	edges := make([]Edge, 0, len(lines.HorizontalLines)+len(lines.VerticalLines))
	for _, y := range lines.HorizontalLines {
		edges = append(edges, Edge{X0: minX, Top: y, X1: maxX, Bottom: y, Orientation: geom.Horizontal, Source: EdgeSourceExplicit})
	}
	for _, x := range lines.VerticalLines {
		edges = append(edges, Edge{X0: x, Top: minY, X1: x, Bottom: maxY, Orientation: geom.Vertical, Source: EdgeSourceExplicit})
	}
	return edges
}

func minMax(vals []float64) (float64, float64) {
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
