/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package layout clusters words into lines, splits lines at column gaps,
// groups lines into reading-order blocks, and renders the result to text.
// Grounded directly on
// original_source/crates/pdfplumber-core/src/layout.rs's
// cluster_words_into_lines / split_lines_at_columns /
// cluster_lines_into_blocks / sort_blocks_reading_order / blocks_to_text,
// keeping that file's bucketed-by-y-midpoint approach for sub-quadratic
// complexity on large pages.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// Options configures clustering.
type Options struct {
	YTolerance float64 // line clustering
	XDensity   float64 // column split gap threshold
	YDensity   float64 // block clustering gap threshold
}

// DefaultOptions returns this module's default thresholds.
func DefaultOptions() Options {
	return Options{YTolerance: 3, XDensity: 10, YDensity: 10}
}

// Line is a run of words sharing a y-level (or, after column splitting,
// one column segment of such a run).
type Line struct {
	Words []wordassembly.Word
	BBox  geom.BBox
}

// Block is a group of vertically adjacent, x-overlapping lines: the
// reading-order unit text extraction treats as a paragraph.
type Block struct {
	Lines []Line
	BBox  geom.BBox
}

// ClusterIntoLines groups words into lines by y-midpoint proximity,
// bucketing on a quantized midpoint so each word only needs to check its
// own bucket and its two neighbors.
func ClusterIntoLines(words []wordassembly.Word, yTolerance float64) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]wordassembly.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Top != sorted[j].BBox.Top {
			return sorted[i].BBox.Top < sorted[j].BBox.Top
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	bucketSize := yTolerance
	if bucketSize <= 0 {
		bucketSize = 1e-9
	}

	var lines []Line
	bucketToLines := map[int64][]int{}

	bucketOf := func(midY float64) int64 {
		return int64(math.Floor(midY / bucketSize))
	}

	for _, w := range sorted {
		wordMid := w.BBox.YMid()
		wordBucket := bucketOf(wordMid)

		matched := -1
	search:
		for delta := int64(-1); delta <= 1; delta++ {
			for _, idx := range bucketToLines[wordBucket+delta] {
				lineMid := lines[idx].BBox.YMid()
				if absf(wordMid-lineMid) <= yTolerance {
					matched = idx
					break search
				}
			}
		}

		if matched >= 0 {
			oldBucket := bucketOf(lines[matched].BBox.YMid())
			lines[matched].BBox = lines[matched].BBox.Union(w.BBox)
			lines[matched].Words = append(lines[matched].Words, w)
			newBucket := bucketOf(lines[matched].BBox.YMid())
			if newBucket != oldBucket {
				bucketToLines[oldBucket] = removeInt(bucketToLines[oldBucket], matched)
				bucketToLines[newBucket] = append(bucketToLines[newBucket], matched)
			}
		} else {
			idx := len(lines)
			lines = append(lines, Line{Words: []wordassembly.Word{w}, BBox: w.BBox})
			b := bucketOf(w.BBox.YMid())
			bucketToLines[b] = append(bucketToLines[b], idx)
		}
	}

	for i := range lines {
		sort.SliceStable(lines[i].Words, func(a, b int) bool {
			return lines[i].Words[a].BBox.X0 < lines[i].Words[b].BBox.X0
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].BBox.Top < lines[j].BBox.Top })

	return lines
}

// SplitAtColumns splits each line wherever two consecutive words have a
// gap larger than xDensity, producing one line segment per column.
func SplitAtColumns(lines []Line, xDensity float64) []Line {
	var result []Line
	for _, line := range lines {
		if len(line.Words) <= 1 {
			result = append(result, line)
			continue
		}

		current := []wordassembly.Word{line.Words[0]}
		bbox := line.Words[0].BBox

		for _, w := range line.Words[1:] {
			gap := w.BBox.X0 - bbox.X1
			if gap > xDensity {
				result = append(result, Line{Words: current, BBox: bbox})
				current = []wordassembly.Word{w}
				bbox = w.BBox
				continue
			}
			bbox = bbox.Union(w.BBox)
			current = append(current, w)
		}
		result = append(result, Line{Words: current, BBox: bbox})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].BBox.Top != result[j].BBox.Top {
			return result[i].BBox.Top < result[j].BBox.Top
		}
		return result[i].BBox.X0 < result[j].BBox.X0
	})
	return result
}

// ClusterIntoBlocks groups line segments into blocks: a line joins the
// block whose bottom is closest above it (within yDensity) and whose
// x-range overlaps the line's.
func ClusterIntoBlocks(lines []Line, yDensity float64) []Block {
	if len(lines) == 0 {
		return nil
	}

	var blocks []Block
	for _, line := range lines {
		best := -1
		bestGap := -1.0

		for i, block := range blocks {
			gap := line.BBox.Top - block.BBox.Bottom
			if gap < 0 || gap > yDensity {
				continue
			}
			if !xOverlap(line.BBox, block.BBox) {
				continue
			}
			if best < 0 || gap < bestGap {
				best = i
				bestGap = gap
			}
		}

		if best >= 0 {
			blocks[best].BBox = blocks[best].BBox.Union(line.BBox)
			blocks[best].Lines = append(blocks[best].Lines, line)
		} else {
			blocks = append(blocks, Block{BBox: line.BBox, Lines: []Line{line}})
		}
	}

	for i := range blocks {
		sort.SliceStable(blocks[i].Lines, func(a, b int) bool {
			return blocks[i].Lines[a].BBox.Top < blocks[i].Lines[b].BBox.Top
		})
	}
	return blocks
}

func xOverlap(a, b geom.BBox) bool {
	return a.X0 < b.X1 && b.X0 < a.X1
}

// SortReadingOrder sorts blocks by (top, x0): top-to-bottom,
// left-to-right within the same vertical band.
func SortReadingOrder(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BBox.Top != blocks[j].BBox.Top {
			return blocks[i].BBox.Top < blocks[j].BBox.Top
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
}

// Render joins words by spaces within a line, lines by "\n" within a
// block, and blocks by "\n\n".
func Render(blocks []Block) string {
	blockStrs := make([]string, len(blocks))
	for i, block := range blocks {
		lineStrs := make([]string, len(block.Lines))
		for j, line := range block.Lines {
			wordStrs := make([]string, len(line.Words))
			for k, w := range line.Words {
				wordStrs[k] = w.Text
			}
			lineStrs[j] = strings.Join(wordStrs, " ")
		}
		blockStrs[i] = strings.Join(lineStrs, "\n")
	}
	return strings.Join(blockStrs, "\n\n")
}

// RenderWords clusters words into lines only (no block/column step) and
// joins them: the "simple", non-layout-aware text extraction mode.
func RenderWords(words []wordassembly.Word, yTolerance float64) string {
	lines := ClusterIntoLines(words, yTolerance)
	lineStrs := make([]string, len(lines))
	for i, line := range lines {
		wordStrs := make([]string, len(line.Words))
		for j, w := range line.Words {
			wordStrs[j] = w.Text
		}
		lineStrs[i] = strings.Join(wordStrs, " ")
	}
	return strings.Join(lineStrs, "\n")
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
