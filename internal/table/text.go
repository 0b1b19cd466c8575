/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"sort"
	"strings"

	"github.com/unidoc/pdflayout/internal/material"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// ExtractTextForCells fills in each cell's Text: chars whose bbox
// centroid lies inside the cell are grouped into words, the words into
// lines by y-proximity within yTolerance, and the lines joined with "\n"
// (words within a line joined with " "). Cells with
// no matching chars are left with a nil Text.
func ExtractTextForCells(cells []Cell, chars []material.Char, opts wordassembly.Options) []Cell {
	out := make([]Cell, len(cells))
	for i, cell := range cells {
		out[i] = cell

		var cellChars []material.Char
		for _, c := range chars {
			cx, cy := c.BBox.Centroid()
			if cx >= cell.BBox.X0 && cx <= cell.BBox.X1 && cy >= cell.BBox.Top && cy <= cell.BBox.Bottom {
				cellChars = append(cellChars, c)
			}
		}
		if len(cellChars) == 0 {
			continue
		}

		words := wordassembly.Assemble(cellChars, opts)
		if len(words) == 0 {
			continue
		}

		sorted := make([]wordassembly.Word, len(words))
		copy(sorted, words)
		sort.SliceStable(sorted, func(a, b int) bool {
			if sorted[a].BBox.Top != sorted[b].BBox.Top {
				return sorted[a].BBox.Top < sorted[b].BBox.Top
			}
			return sorted[a].BBox.X0 < sorted[b].BBox.X0
		})

		var lines [][]wordassembly.Word
		for _, w := range sorted {
			if len(lines) > 0 {
				lastTop := lines[len(lines)-1][0].BBox.Top
				if absf(w.BBox.Top-lastTop) <= opts.YTolerance {
					lines[len(lines)-1] = append(lines[len(lines)-1], w)
					continue
				}
			}
			lines = append(lines, []wordassembly.Word{w})
		}

		lineStrs := make([]string, len(lines))
		for j, line := range lines {
			wordStrs := make([]string, len(line))
			for k, w := range line {
				wordStrs[k] = w.Text
			}
			lineStrs[j] = strings.Join(wordStrs, " ")
		}
		text := strings.Join(lineStrs, "\n")
		out[i].Text = &text
	}
	return out
}
