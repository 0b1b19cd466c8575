/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"math"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// FindTables runs the shared pipeline — select edges by strategy, filter
// by length, snap, join, intersect, assemble cells, group into tables —
// over detectedEdges (from EdgesFromShapes) and words (used only by the
// Stream strategy).
func FindTables(detectedEdges []Edge, words []wordassembly.Word, settings Settings) []Table {
	edges := selectEdges(detectedEdges, words, settings)

	edges = FilterByLength(edges, settings.EdgeMinLength)
	if len(edges) == 0 {
		return nil
	}

	edges = SnapEdges(edges, settings.SnapXTolerance, settings.SnapYTolerance)
	edges = JoinEdgeGroup(edges, settings.JoinXTolerance, settings.JoinYTolerance)

	intersections := EdgesToIntersections(edges, settings.IntersectionXTolerance, settings.IntersectionYTolerance)
	cells := IntersectionsToCells(intersections)
	return CellsToTables(cells)
}

func selectEdges(detectedEdges []Edge, words []wordassembly.Word, settings Settings) []Edge {
	switch settings.Strategy {
	case LatticeStrict:
		out := make([]Edge, 0, len(detectedEdges))
		for _, e := range detectedEdges {
			if e.Source == EdgeSourceLine {
				out = append(out, e)
			}
		}
		return out
	case Stream:
		return WordsToEdgesStream(words, settings.TextXTolerance, settings.TextYTolerance,
			settings.MinWordsVertical, settings.MinWordsHorizontal)
	case Explicit:
		edges := make([]Edge, len(detectedEdges))
		copy(edges, detectedEdges)
		if settings.ExplicitLines != nil {
			edges = append(edges, mixExplicit(edges, *settings.ExplicitLines)...)
		}
		return edges
	default: // Lattice
		out := make([]Edge, len(detectedEdges))
		copy(out, detectedEdges)
		return out
	}
}

// mixExplicit builds explicit edges spanning the combined range of the
// already-detected edges and the caller's coordinates, so Explicit mode
// can mix detected and user-supplied lines.
func mixExplicit(detected []Edge, explicit ExplicitLines) []Edge {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, e := range detected {
		minX = math.Min(minX, e.X0)
		maxX = math.Max(maxX, e.X1)
		minY = math.Min(minY, e.Top)
		maxY = math.Max(maxY, e.Bottom)
	}
	for _, x := range explicit.VerticalLines {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	for _, y := range explicit.HorizontalLines {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if minX > maxX || minY > maxY {
		return nil
	}

	var out []Edge
	for _, y := range explicit.HorizontalLines {
		out = append(out, Edge{X0: minX, Top: y, X1: maxX, Bottom: y, Orientation: geom.Horizontal, Source: EdgeSourceExplicit})
	}
	for _, x := range explicit.VerticalLines {
		out = append(out, Edge{X0: x, Top: minY, X1: x, Bottom: maxY, Orientation: geom.Vertical, Source: EdgeSourceExplicit})
	}
	return out
}
