/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package table

import (
	"math"
	"sort"

	"github.com/unidoc/pdflayout/internal/geom"
)

// Intersection is a point where a horizontal and a vertical edge cross.
type Intersection struct {
	X, Y float64
}

const pointEpsilon = 1e-9

// EdgesToIntersections finds every point where a vertical edge's x lies
// within a horizontal edge's x-span (±xTolerance) and the horizontal
// edge's y lies within the vertical edge's y-span (±yTolerance); results
// are sorted and deduplicated.
func EdgesToIntersections(edges []Edge, xTolerance, yTolerance float64) []Intersection {
	var horiz, vert []Edge
	for _, e := range edges {
		switch e.Orientation {
		case geom.Horizontal:
			horiz = append(horiz, e)
		case geom.Vertical:
			vert = append(vert, e)
		}
	}

	var out []Intersection
	for _, h := range horiz {
		hy := h.Top
		for _, v := range vert {
			vx := v.X0
			if vx >= h.X0-xTolerance && vx <= h.X1+xTolerance &&
				hy >= v.Top-yTolerance && hy <= v.Bottom+yTolerance {
				out = append(out, Intersection{X: vx, Y: hy})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})

	deduped := out[:0:0]
	for _, pt := range out {
		if len(deduped) > 0 {
			last := deduped[len(deduped)-1]
			if absf(pt.X-last.X) < pointEpsilon && absf(pt.Y-last.Y) < pointEpsilon {
				continue
			}
		}
		deduped = append(deduped, pt)
	}
	return deduped
}

// IntersectionsToCells builds the grid of unique x/y coordinates from
// intersections and emits a Cell for every adjacent (x,x+1)×(y,y+1) pair
// whose four corners are all present.
func IntersectionsToCells(intersections []Intersection) []Cell {
	if len(intersections) == 0 {
		return nil
	}

	var xs, ys []float64
	addUnique := func(vals *[]float64, v float64) {
		for _, x := range *vals {
			if absf(x-v) < pointEpsilon {
				return
			}
		}
		*vals = append(*vals, v)
	}
	for _, pt := range intersections {
		addUnique(&xs, pt.X)
		addUnique(&ys, pt.Y)
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	present := make(map[[2]int64]bool, len(intersections))
	key := func(x, y float64) [2]int64 { return [2]int64{floatKey(x), floatKey(y)} }
	for _, pt := range intersections {
		present[key(pt.X, pt.Y)] = true
	}
	has := func(x, y float64) bool { return present[key(x, y)] }

	var cells []Cell
	for yi := 0; yi+1 < len(ys); yi++ {
		top, bottom := ys[yi], ys[yi+1]
		for xi := 0; xi+1 < len(xs); xi++ {
			x0, x1 := xs[xi], xs[xi+1]
			if has(x0, top) && has(x1, top) && has(x0, bottom) && has(x1, bottom) {
				cells = append(cells, Cell{BBox: geom.NewBBox(x0, top, x1, bottom)})
			}
		}
	}
	return cells
}

// CellsToTables groups cells that share an edge into connected
// components via union-find, then organizes each component's cells into
// rows and columns.
func CellsToTables(cells []Cell) []Table {
	n := len(cells)
	if n == 0 {
		return nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if cellsShareEdge(cells[i], cells[j]) {
				union(i, j)
			}
		}
	}

	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	tables := make([]Table, 0, len(groups))
	for _, indices := range groups {
		groupCells := make([]Cell, len(indices))
		for k, idx := range indices {
			groupCells[k] = cells[idx]
		}

		bbox := groupCells[0].BBox
		for _, c := range groupCells[1:] {
			bbox = bbox.Union(c.BBox)
		}

		rowMap := map[int64][]Cell{}
		var rowKeys []int64
		for _, c := range groupCells {
			k := floatKey(c.BBox.Top)
			if _, ok := rowMap[k]; !ok {
				rowKeys = append(rowKeys, k)
			}
			rowMap[k] = append(rowMap[k], c)
		}
		sort.Slice(rowKeys, func(i, j int) bool { return rowKeys[i] < rowKeys[j] })
		rows := make([][]Cell, len(rowKeys))
		for i, k := range rowKeys {
			row := rowMap[k]
			sort.SliceStable(row, func(a, b int) bool { return row[a].BBox.X0 < row[b].BBox.X0 })
			rows[i] = row
		}

		colMap := map[int64][]Cell{}
		var colKeys []int64
		for _, c := range groupCells {
			k := floatKey(c.BBox.X0)
			if _, ok := colMap[k]; !ok {
				colKeys = append(colKeys, k)
			}
			colMap[k] = append(colMap[k], c)
		}
		sort.Slice(colKeys, func(i, j int) bool { return colKeys[i] < colKeys[j] })
		cols := make([][]Cell, len(colKeys))
		for i, k := range colKeys {
			col := colMap[k]
			sort.SliceStable(col, func(a, b int) bool { return col[a].BBox.Top < col[b].BBox.Top })
			cols[i] = col
		}

		tables = append(tables, Table{BBox: bbox, Cells: groupCells, Rows: rows, Columns: cols})
	}

	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].BBox.Top != tables[j].BBox.Top {
			return tables[i].BBox.Top < tables[j].BBox.Top
		}
		return tables[i].BBox.X0 < tables[j].BBox.X0
	})
	return tables
}

const shareEdgeEpsilon = 1e-6

func cellsShareEdge(a, b Cell) bool {
	sharedVertical := (absf(a.BBox.X1-b.BBox.X0) < shareEdgeEpsilon || absf(a.BBox.X0-b.BBox.X1) < shareEdgeEpsilon) &&
		a.BBox.Top < b.BBox.Bottom+shareEdgeEpsilon && b.BBox.Top < a.BBox.Bottom+shareEdgeEpsilon
	sharedHorizontal := (absf(a.BBox.Bottom-b.BBox.Top) < shareEdgeEpsilon || absf(a.BBox.Top-b.BBox.Bottom) < shareEdgeEpsilon) &&
		a.BBox.X0 < b.BBox.X1+shareEdgeEpsilon && b.BBox.X0 < a.BBox.X1+shareEdgeEpsilon
	return sharedVertical || sharedHorizontal
}

func floatKey(v float64) int64 {
	return int64(math.Round(v * 1000))
}
