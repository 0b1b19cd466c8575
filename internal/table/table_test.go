/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/material"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

func hline(x0, y, x1 float64, source EdgeSource) Edge {
	return Edge{X0: x0, Top: y, X1: x1, Bottom: y, Orientation: geom.Horizontal, Source: source}
}

func vline(x, y0, y1 float64, source EdgeSource) Edge {
	return Edge{X0: x, Top: y0, X1: x, Bottom: y1, Orientation: geom.Vertical, Source: source}
}

// A simple single-row grid: two horizontal rules and three vertical
// rules bound a single row of two cells.
func gridEdges() []Edge {
	return []Edge{
		hline(0, 0, 100, EdgeSourceLine),
		hline(0, 20, 100, EdgeSourceLine),
		vline(0, 0, 20, EdgeSourceLine),
		vline(50, 0, 20, EdgeSourceLine),
		vline(100, 0, 20, EdgeSourceLine),
	}
}

func TestFindTablesLatticeBuildsSingleRowTwoCells(t *testing.T) {
	tables := FindTables(gridEdges(), nil, DefaultSettings())
	require.Len(t, tables, 1)
	tbl := tables[0]
	assert.Len(t, tbl.Cells, 2)
	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Rows[0], 2)
	require.Len(t, tbl.Columns, 2)
}

func TestFindTablesLatticeStrictDropsRectEdges(t *testing.T) {
	edges := gridEdges()
	edges = append(edges,
		hline(0, 0, 100, EdgeSourceRect),
		hline(0, 20, 100, EdgeSourceRect),
		vline(0, 0, 20, EdgeSourceRect),
		vline(100, 0, 20, EdgeSourceRect),
	)

	settings := DefaultSettings()
	settings.Strategy = LatticeStrict
	tables := FindTables(edges, nil, settings)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Cells, 2)
}

func TestFindTablesLengthFilterDropsShortEdges(t *testing.T) {
	edges := []Edge{
		hline(0, 0, 1, EdgeSourceLine), // length 1, below default min of 3
		hline(0, 20, 100, EdgeSourceLine),
		vline(0, 0, 20, EdgeSourceLine),
		vline(100, 0, 20, EdgeSourceLine),
	}
	tables := FindTables(edges, nil, DefaultSettings())
	assert.Empty(t, tables)
}

func TestSnapEdgesAlignsNearbyCollinearEdges(t *testing.T) {
	edges := []Edge{
		hline(0, 0, 100, EdgeSourceLine),
		hline(0, 1, 100, EdgeSourceLine), // within snap tolerance of the first
	}
	snapped := SnapEdges(edges, 3, 3)
	require.Len(t, snapped, 2)
	assert.Equal(t, snapped[0].Top, snapped[1].Top)
}

func TestJoinEdgeGroupMergesOverlappingCollinearSegments(t *testing.T) {
	edges := []Edge{
		hline(0, 0, 50, EdgeSourceLine),
		hline(49, 0, 100, EdgeSourceLine), // overlaps the first, same y
	}
	joined := JoinEdgeGroup(edges, 3, 3)
	require.Len(t, joined, 1)
	assert.Equal(t, 0.0, joined[0].X0)
	assert.Equal(t, 100.0, joined[0].X1)
}

func TestJoinEdgeGroupKeepsFarApartSegmentsSeparate(t *testing.T) {
	edges := []Edge{
		hline(0, 0, 10, EdgeSourceLine),
		hline(50, 0, 60, EdgeSourceLine),
	}
	joined := JoinEdgeGroup(edges, 3, 3)
	assert.Len(t, joined, 2)
}

func TestEdgesToIntersectionsFindsGridCrossings(t *testing.T) {
	intersections := EdgesToIntersections(gridEdges(), 3, 3)
	// 3 verticals x 2 horizontals = 6 crossings
	assert.Len(t, intersections, 6)
}

func TestIntersectionsToCellsRequiresAllFourCorners(t *testing.T) {
	// Missing the bottom-right corner; no cell should form.
	intersections := []Intersection{
		{X: 0, Y: 0}, {X: 50, Y: 0},
		{X: 0, Y: 20},
	}
	cells := IntersectionsToCells(intersections)
	assert.Empty(t, cells)
}

func TestIntersectionsToCellsBuildsCellWhenAllCornersPresent(t *testing.T) {
	intersections := []Intersection{
		{X: 0, Y: 0}, {X: 50, Y: 0},
		{X: 0, Y: 20}, {X: 50, Y: 20},
	}
	cells := IntersectionsToCells(intersections)
	require.Len(t, cells, 1)
	assert.Equal(t, geom.NewBBox(0, 0, 50, 20), cells[0].BBox)
}

func TestCellsToTablesSeparatesDisjointGroups(t *testing.T) {
	cellA := Cell{BBox: geom.NewBBox(0, 0, 10, 10)}
	cellB := Cell{BBox: geom.NewBBox(10, 0, 20, 10)} // shares an edge with A
	cellC := Cell{BBox: geom.NewBBox(500, 500, 510, 510)} // far away, separate table

	tables := CellsToTables([]Cell{cellA, cellB, cellC})
	require.Len(t, tables, 2)
	assert.Len(t, tables[0].Cells, 2)
	assert.Len(t, tables[1].Cells, 1)
}

func TestEdgesFromShapesEmitsFourEdgesPerRect(t *testing.T) {
	rect := geom.Rect{BBox: geom.NewBBox(0, 0, 50, 20)}
	edges := EdgesFromShapes(nil, []geom.Rect{rect}, true)
	assert.Len(t, edges, 4)
}

func TestEdgesFromShapesOmitsRectsWhenNotIncluded(t *testing.T) {
	rect := geom.Rect{BBox: geom.NewBBox(0, 0, 50, 20)}
	edges := EdgesFromShapes(nil, []geom.Rect{rect}, false)
	assert.Empty(t, edges)
}

func wordAt(x0, top, x1, bottom float64) wordassembly.Word {
	return wordassembly.Word{Text: "w", BBox: geom.NewBBox(x0, top, x1, bottom)}
}

func TestWordsToEdgesStreamSynthesizesVerticalEdgeFromAlignedColumn(t *testing.T) {
	words := []wordassembly.Word{
		wordAt(0, 0, 10, 10),
		wordAt(0, 20, 10, 30),
		wordAt(0.5, 40, 10, 50),
	}
	edges := WordsToEdgesStream(words, 3, 3, 3, 100)
	var verticals int
	for _, e := range edges {
		if e.Orientation == geom.Vertical {
			verticals++
		}
	}
	assert.GreaterOrEqual(t, verticals, 1)
}

func TestWordsToEdgesStreamSkipsClustersBelowMinimum(t *testing.T) {
	words := []wordassembly.Word{
		wordAt(0, 0, 10, 10),
		wordAt(0, 20, 10, 30),
	}
	edges := WordsToEdgesStream(words, 3, 3, 5, 5)
	assert.Empty(t, edges)
}

func TestFindTablesExplicitMixesDetectedAndCallerEdges(t *testing.T) {
	settings := DefaultSettings()
	settings.Strategy = Explicit
	settings.ExplicitLines = &ExplicitLines{
		HorizontalLines: []float64{0, 20},
		VerticalLines:   []float64{0, 50, 100},
	}
	tables := FindTables(nil, nil, settings)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Cells, 2)
}

func charAt(text string, x0, top, x1, bottom float64) material.Char {
	return material.Char{Text: text, BBox: geom.NewBBox(x0, top, x1, bottom)}
}

func TestExtractTextForCellsFindsCharsByCentroid(t *testing.T) {
	cell := Cell{BBox: geom.NewBBox(0, 0, 50, 20)}
	chars := []material.Char{
		charAt("H", 5, 5, 10, 15),
		charAt("i", 11, 5, 14, 15),
		charAt("X", 200, 200, 210, 215), // outside the cell
	}
	out := ExtractTextForCells([]Cell{cell}, chars, wordassembly.DefaultOptions())
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Text)
	assert.Equal(t, "Hi", *out[0].Text)
}

func TestExtractTextForCellsLeavesEmptyCellsNil(t *testing.T) {
	cell := Cell{BBox: geom.NewBBox(0, 0, 50, 20)}
	out := ExtractTextForCells([]Cell{cell}, nil, wordassembly.DefaultOptions())
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Text)
}
