/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/layout"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

func wordAt(text string, x0, x1, top, bottom float64) wordassembly.Word {
	return wordassembly.Word{Text: text, BBox: geom.NewBBox(x0, top, x1, bottom), DocTop: top}
}

func TestClusterIntoLinesGroupsSameYMidpoint(t *testing.T) {
	words := []wordassembly.Word{
		wordAt("foo", 0, 20, 0, 12),
		wordAt("bar", 25, 45, 1, 13), // 1pt off, within default tolerance
	}
	lines := layout.ClusterIntoLines(words, 3)
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Words, 2)
}

func TestClusterIntoLinesSplitsFarApartY(t *testing.T) {
	words := []wordassembly.Word{
		wordAt("foo", 0, 20, 0, 12),
		wordAt("bar", 0, 20, 100, 112),
	}
	lines := layout.ClusterIntoLines(words, 3)
	require.Len(t, lines, 2)
}

func TestClusterIntoLinesSortsWordsLeftToRight(t *testing.T) {
	words := []wordassembly.Word{
		wordAt("second", 50, 80, 0, 12),
		wordAt("first", 0, 20, 0, 12),
	}
	lines := layout.ClusterIntoLines(words, 3)
	require.Len(t, lines, 1)
	require.Equal(t, "first", lines[0].Words[0].Text)
	require.Equal(t, "second", lines[0].Words[1].Text)
}

func TestSplitAtColumnsSplitsOnLargeGap(t *testing.T) {
	line := layout.Line{
		Words: []wordassembly.Word{
			wordAt("left", 0, 20, 0, 12),
			wordAt("right", 200, 220, 0, 12),
		},
		BBox: geom.NewBBox(0, 0, 220, 12),
	}
	result := layout.SplitAtColumns([]layout.Line{line}, 10)
	require.Len(t, result, 2)
}

func TestSplitAtColumnsKeepsTogetherWithinDensity(t *testing.T) {
	line := layout.Line{
		Words: []wordassembly.Word{
			wordAt("a", 0, 20, 0, 12),
			wordAt("b", 25, 45, 0, 12),
		},
		BBox: geom.NewBBox(0, 0, 45, 12),
	}
	result := layout.SplitAtColumns([]layout.Line{line}, 10)
	require.Len(t, result, 1)
}

func TestClusterIntoBlocksGroupsVerticallyAdjacentOverlappingLines(t *testing.T) {
	lines := []layout.Line{
		{Words: []wordassembly.Word{wordAt("a", 0, 20, 0, 12)}, BBox: geom.NewBBox(0, 0, 20, 12)},
		{Words: []wordassembly.Word{wordAt("b", 0, 20, 15, 27)}, BBox: geom.NewBBox(0, 15, 20, 27)},
	}
	blocks := layout.ClusterIntoBlocks(lines, 10)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Lines, 2)
}

func TestClusterIntoBlocksSeparatesNonOverlappingX(t *testing.T) {
	lines := []layout.Line{
		{Words: []wordassembly.Word{wordAt("a", 0, 20, 0, 12)}, BBox: geom.NewBBox(0, 0, 20, 12)},
		{Words: []wordassembly.Word{wordAt("b", 100, 120, 15, 27)}, BBox: geom.NewBBox(100, 15, 120, 27)},
	}
	blocks := layout.ClusterIntoBlocks(lines, 10)
	require.Len(t, blocks, 2)
}

func TestRenderJoinsWordsLinesBlocks(t *testing.T) {
	blocks := []layout.Block{
		{Lines: []layout.Line{
			{Words: []wordassembly.Word{{Text: "hello"}, {Text: "world"}}},
		}},
		{Lines: []layout.Line{
			{Words: []wordassembly.Word{{Text: "second"}}},
		}},
	}
	require.Equal(t, "hello world\n\nsecond", layout.Render(blocks))
}

func TestSortReadingOrderTopThenLeft(t *testing.T) {
	blocks := []layout.Block{
		{BBox: geom.NewBBox(50, 0, 70, 12)},
		{BBox: geom.NewBBox(0, 0, 20, 12)},
	}
	layout.SortReadingOrder(blocks)
	require.InDelta(t, 0, blocks[0].BBox.X0, 1e-9)
	require.InDelta(t, 50, blocks[1].BBox.X0, 1e-9)
}
