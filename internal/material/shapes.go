/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package material

import (
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/interp"
)

// lineVertexCount is the vertex count MaterializeShapes treats as a Line;
// minRectVertices/maxRectVertices bound the shapes it treats as
// rectangle candidates: `re` emits moveTo+3×lineTo+close (4 vertices);
// hand-drawn rectangles sometimes repeat the closing point with an
// explicit final lineTo before `h` (5 vertices).
const (
	lineVertexCount = 2
	minRectVertices = 4
	maxRectVertices = 5
)

// vertex is a page-coordinate point sampled from a path segment.
type vertex struct{ X, Y float64 }

// MaterializeShapes classifies one painted path into the Line, Rect, or
// Curve it represents: a two-vertex path is a Line; a
// four-or-five-vertex axis-aligned closed path is a Rect; anything
// containing a cubic curve, or any other vertex-count shape, is reported
// as a Curve (the pack's only 2D-geometry stack the teacher and pack
// repos ship is this library's own geom package — there is no
// general-purpose polygon classifier to defer to, so more elaborate
// shapes are conservatively bucketed as Curves rather than silently
// dropped).
func MaterializeShapes(ev interp.PathEvent, pageHeight float64) (lines []geom.Line, rects []geom.Rect, curves []geom.Curve) {
	pp := ev.Path
	hasCurve := false
	for _, seg := range pp.Segments {
		if seg.Kind == geom.SegCubicCurve {
			hasCurve = true
			break
		}
	}

	color := pp.StrokeColor
	if pp.Fill {
		color = pp.FillColor
	}

	if hasCurve {
		points := controlPoints(pp, pageHeight)
		if len(points) == 0 {
			return
		}
		curves = append(curves, geom.Curve{
			BBox:   bboxFromPoints(points),
			Points: points,
			Stroke: pp.Stroke,
			Fill:   pp.Fill,
			Color:  color,
		})
		return
	}

	verts := vertices(pp, pageHeight)
	switch {
	case len(verts) == lineVertexCount:
		bbox := bboxFromVertices(verts)
		lines = append(lines, geom.Line{
			BBox:        bbox,
			Orientation: geom.ClassifyOrientation(verts[0].X, verts[0].Y, verts[1].X, verts[1].Y),
			Width:       pp.LineWidth,
			Color:       color,
		})
	case len(verts) >= minRectVertices && len(verts) <= maxRectVertices && isAxisAlignedRect(verts):
		rects = append(rects, geom.Rect{
			BBox:        bboxFromVertices(verts),
			Stroke:      pp.Stroke,
			Fill:        pp.Fill,
			LineWidth:   pp.LineWidth,
			StrokeColor: pp.StrokeColor,
			FillColor:   pp.FillColor,
		})
	case len(verts) >= lineVertexCount:
		points := make([]geom.Point, len(verts))
		for i, v := range verts {
			points[i] = geom.Point{X: v.X, Y: v.Y}
		}
		curves = append(curves, geom.Curve{
			BBox:   bboxFromVertices(verts),
			Points: points,
			Stroke: pp.Stroke,
			Fill:   pp.Fill,
			Color:  color,
		})
	}
	return
}

// vertices transforms each MoveTo/LineTo segment's endpoint through the
// path's CTM and y-flips it; SegClose contributes no new point.
func vertices(pp geom.PaintedPath, pageHeight float64) []vertex {
	var out []vertex
	for _, seg := range pp.Segments {
		switch seg.Kind {
		case geom.SegMoveTo, geom.SegLineTo:
			out = append(out, transformVertex(pp.CTM, seg.X, seg.Y, pageHeight))
		}
	}
	return out
}

// controlPoints samples every coordinate a path's construction operators
// carried (move/line endpoints, cubic control points and endpoint),
// transformed and y-flipped, for Curve.Points.
func controlPoints(pp geom.PaintedPath, pageHeight float64) []geom.Point {
	var out []geom.Point
	for _, seg := range pp.Segments {
		switch seg.Kind {
		case geom.SegMoveTo, geom.SegLineTo:
			v := transformVertex(pp.CTM, seg.X, seg.Y, pageHeight)
			out = append(out, geom.Point{X: v.X, Y: v.Y})
		case geom.SegCubicCurve:
			c1 := transformVertex(pp.CTM, seg.C1X, seg.C1Y, pageHeight)
			c2 := transformVertex(pp.CTM, seg.C2X, seg.C2Y, pageHeight)
			end := transformVertex(pp.CTM, seg.EndX, seg.EndY, pageHeight)
			out = append(out, geom.Point{X: c1.X, Y: c1.Y}, geom.Point{X: c2.X, Y: c2.Y}, geom.Point{X: end.X, Y: end.Y})
		}
	}
	return out
}

func transformVertex(ctm geom.Matrix, x, y, pageHeight float64) vertex {
	px, py := ctm.TransformPoint(x, y)
	return vertex{X: px, Y: pageHeight - py}
}

// isAxisAlignedRect reports whether verts (already deduplicated of the
// implicit closing point) trace a rectangle with sides parallel to the
// axes: exactly two distinct x-values and two distinct y-values, each
// used exactly twice.
func isAxisAlignedRect(verts []vertex) bool {
	pts := verts
	if len(pts) == maxRectVertices {
		// A trailing explicit return-to-start vertex duplicates the
		// first; drop it before counting distinct coordinates.
		last := pts[len(pts)-1]
		if approxEqual(last.X, pts[0].X) && approxEqual(last.Y, pts[0].Y) {
			pts = pts[:len(pts)-1]
		}
	}
	if len(pts) != minRectVertices {
		return false
	}
	xs := map[float64]int{}
	ys := map[float64]int{}
	for _, p := range pts {
		xs[roundTo(p.X)]++
		ys[roundTo(p.Y)]++
	}
	if len(xs) != 2 || len(ys) != 2 {
		return false
	}
	for _, c := range xs {
		if c != 2 {
			return false
		}
	}
	for _, c := range ys {
		if c != 2 {
			return false
		}
	}
	return true
}

const rectCoordEpsilon = 1e-3

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < rectCoordEpsilon
}

// roundTo buckets a coordinate to a fixed precision so near-identical
// float values (e.g. from matrix round-trip error) count as the same
// rectangle side.
func roundTo(x float64) float64 {
	const scale = 1000.0
	return float64(int64(x*scale+0.5)) / scale
}

func bboxFromVertices(verts []vertex) geom.BBox {
	minX, maxX := verts[0].X, verts[0].X
	minY, maxY := verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return geom.NewBBox(minX, minY, maxX, maxY)
}

func bboxFromPoints(points []geom.Point) geom.BBox {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geom.NewBBox(minX, minY, maxX, maxY)
}
