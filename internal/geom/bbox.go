/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package geom

import (
	"fmt"
	"math"
)

// BBox is a top-left-origin bounding box in PDF points: x grows right, y
// (Top/Bottom) grows down. Every BBox leaving stage F (materialization)
// uses this orientation; nothing downstream flips y again.
type BBox struct {
	X0, Top, X1, Bottom float64
}

// NewBBox builds a BBox, sorting the coordinates so X0<=X1 and Top<=Bottom.
func NewBBox(x0, top, x1, bottom float64) BBox {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	return BBox{X0: x0, Top: top, X1: x1, Bottom: bottom}
}

// Width returns x1-x0.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns bottom-top.
func (b BBox) Height() float64 { return b.Bottom - b.Top }

// IsEmpty reports whether the box has zero or negative extent.
func (b BBox) IsEmpty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// ContainsPoint reports whether (x, y) lies within b, inclusive of edges.
func (b BBox) ContainsPoint(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Top && y <= b.Bottom
}

// Contains reports whether b fully contains other.
func (b BBox) Contains(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 && other.Top >= b.Top && other.Bottom <= b.Bottom
}

// Intersects reports whether b and other overlap (touching edges count).
func (b BBox) Intersects(other BBox) bool {
	return b.X0 <= other.X1 && b.X1 >= other.X0 && b.Top <= other.Bottom && b.Bottom >= other.Top
}

// Intersection returns the overlapping region of b and other, and whether
// one exists.
func (b BBox) Intersection(other BBox) (BBox, bool) {
	if !b.Intersects(other) {
		return BBox{}, false
	}
	x0 := math.Max(b.X0, other.X0)
	x1 := math.Min(b.X1, other.X1)
	top := math.Max(b.Top, other.Top)
	bottom := math.Min(b.Bottom, other.Bottom)
	return BBox{X0: x0, Top: top, X1: x1, Bottom: bottom}, true
}

// Union returns the smallest BBox enclosing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0:     math.Min(b.X0, other.X0),
		Top:    math.Min(b.Top, other.Top),
		X1:     math.Max(b.X1, other.X1),
		Bottom: math.Max(b.Bottom, other.Bottom),
	}
}

// Centroid returns the box's center point.
func (b BBox) Centroid() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Top + b.Bottom) / 2
}

// XMid returns the horizontal midpoint.
func (b BBox) XMid() float64 { return (b.X0 + b.X1) / 2 }

// YMid returns the vertical midpoint.
func (b BBox) YMid() float64 { return (b.Top + b.Bottom) / 2 }

func (b BBox) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f, %.2f)", b.X0, b.Top, b.X1, b.Bottom)
}

// Finite reports whether every coordinate is a finite number, the
// invariant every emitted bbox must hold.
func (b BBox) Finite() bool {
	return isFinite(b.X0) && isFinite(b.Top) && isFinite(b.X1) && isFinite(b.Bottom)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
