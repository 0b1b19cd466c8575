/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"math"
	"sort"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/wordassembly"
)

// WordsToEdgesStream synthesizes edges from text alignment for the
// Stream strategy: words whose x0 or x1 coordinates cluster within
// textXTolerance become vertical edges (if the cluster has at least
// minWordsVertical members); words whose top or bottom coordinates
// cluster within textYTolerance become horizontal edges (at least
// minWordsHorizontal members).
func WordsToEdgesStream(words []wordassembly.Word, textXTolerance, textYTolerance float64, minWordsVertical, minWordsHorizontal int) []Edge {
	if len(words) == 0 {
		return nil
	}

	var edges []Edge
	edges = append(edges, clusterWordsToEdges(words, func(w wordassembly.Word) float64 { return w.BBox.X0 },
		textXTolerance, minWordsVertical, true)...)
	edges = append(edges, clusterWordsToEdges(words, func(w wordassembly.Word) float64 { return w.BBox.X1 },
		textXTolerance, minWordsVertical, true)...)
	edges = append(edges, clusterWordsToEdges(words, func(w wordassembly.Word) float64 { return w.BBox.Top },
		textYTolerance, minWordsHorizontal, false)...)
	edges = append(edges, clusterWordsToEdges(words, func(w wordassembly.Word) float64 { return w.BBox.Bottom },
		textYTolerance, minWordsHorizontal, false)...)
	return edges
}

func clusterWordsToEdges(words []wordassembly.Word, key func(wordassembly.Word) float64, tolerance float64, minWords int, vertical bool) []Edge {
	if len(words) == 0 || minWords == 0 {
		return nil
	}

	indices := make([]int, len(words))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool { return key(words[indices[a]]) < key(words[indices[b]]) })

	var edges []Edge
	start := 0
	for i := 1; i <= len(indices); i++ {
		endOfCluster := i == len(indices) || absf(key(words[indices[i]])-key(words[indices[start]])) > tolerance
		if !endOfCluster {
			continue
		}
		size := i - start
		if size >= minWords {
			sum := 0.0
			for j := start; j < i; j++ {
				sum += key(words[indices[j]])
			}
			mean := sum / float64(size)

			if vertical {
				minTop, maxBottom := math.Inf(1), math.Inf(-1)
				for j := start; j < i; j++ {
					w := words[indices[j]]
					minTop = math.Min(minTop, w.BBox.Top)
					maxBottom = math.Max(maxBottom, w.BBox.Bottom)
				}
				edges = append(edges, Edge{X0: mean, Top: minTop, X1: mean, Bottom: maxBottom, Orientation: geom.Vertical, Source: EdgeSourceStream})
			} else {
				minX0, maxX1 := math.Inf(1), math.Inf(-1)
				for j := start; j < i; j++ {
					w := words[indices[j]]
					minX0 = math.Min(minX0, w.BBox.X0)
					maxX1 = math.Max(maxX1, w.BBox.X1)
				}
				edges = append(edges, Edge{X0: minX0, Top: mean, X1: maxX1, Bottom: mean, Orientation: geom.Horizontal, Source: EdgeSourceStream})
			}
		}
		start = i
	}
	return edges
}
