/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package interp

import "github.com/unidoc/pdflayout/internal/geom"

// pathBuilder accumulates path segments between the first `m`/`re` after
// a painting operator (or the start of the content stream) and the next
// painting operator. It stores the CTM in effect when the path's first
// segment is added so coordinates transform once, at paint time.
type pathBuilder struct {
	segments []geom.PathSegment
	ctm      geom.Matrix
	started  bool
}

func newPathBuilder() *pathBuilder {
	return &pathBuilder{}
}

func (pb *pathBuilder) ensureStarted(ctm geom.Matrix) {
	if !pb.started {
		pb.ctm = ctm
		pb.started = true
	}
}

func (pb *pathBuilder) moveTo(ctm geom.Matrix, x, y float64) {
	pb.ensureStarted(ctm)
	pb.segments = append(pb.segments, geom.PathSegment{Kind: geom.SegMoveTo, X: x, Y: y})
}

func (pb *pathBuilder) lineTo(ctm geom.Matrix, x, y float64) {
	pb.ensureStarted(ctm)
	pb.segments = append(pb.segments, geom.PathSegment{Kind: geom.SegLineTo, X: x, Y: y})
}

func (pb *pathBuilder) curveTo(ctm geom.Matrix, c1x, c1y, c2x, c2y, x, y float64) {
	pb.ensureStarted(ctm)
	pb.segments = append(pb.segments, geom.PathSegment{
		Kind: geom.SegCubicCurve,
		C1X:  c1x, C1Y: c1y,
		C2X: c2x, C2Y: c2y,
		EndX: x, EndY: y,
	})
}

func (pb *pathBuilder) close(ctm geom.Matrix) {
	pb.ensureStarted(ctm)
	pb.segments = append(pb.segments, geom.PathSegment{Kind: geom.SegClose})
}

// rect appends the five segments `re` defines (moveTo, three lineTos and
// a close): a closed rectangle starting at (x,y) with the given
// width/height.
func (pb *pathBuilder) rect(ctm geom.Matrix, x, y, w, h float64) {
	pb.moveTo(ctm, x, y)
	pb.lineTo(ctm, x+w, y)
	pb.lineTo(ctm, x+w, y+h)
	pb.lineTo(ctm, x, y+h)
	pb.close(ctm)
}

// flush returns the accumulated segments and CTM as a PaintedPath and
// resets the builder for the next path.
func (pb *pathBuilder) flush(stroke, fill bool, rule geom.FillRule, lineWidth float64, strokeColor, fillColor geom.RGB, dash geom.DashPattern, strokeAlpha, fillAlpha float64) geom.PaintedPath {
	pp := geom.PaintedPath{
		Segments:    pb.segments,
		CTM:         pb.ctm,
		Stroke:      stroke,
		Fill:        fill,
		Rule:        rule,
		LineWidth:   lineWidth,
		StrokeColor: strokeColor,
		FillColor:   fillColor,
		Dash:        dash,
		StrokeAlpha: strokeAlpha,
		FillAlpha:   fillAlpha,
	}
	pb.segments = nil
	pb.started = false
	return pp
}

// empty reports whether any segments have been recorded.
func (pb *pathBuilder) empty() bool { return len(pb.segments) == 0 }
