/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package croppedpage applies a spatial filter to already-materialized
// page content: crop keeps and clips intersecting
// objects, withinBBox keeps only fully contained objects, outsideBBox
// keeps only objects that don't intersect at all. Every downstream
// accessor (chars, words, lines, rects, curves, images, table finding,
// text extraction) is meant to run against a View's filtered output
// rather than the page's raw materialized content. Grounded on the
// clip-to-media-box step `extractor.newTextMark` performs on every
// character's bbox before handing it downstream.
package croppedpage

import (
	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/material"
)

// Mode selects how a View's bbox restricts content.
type Mode int

const (
	// ModeCrop keeps objects intersecting the bbox, clipping their bbox
	// to the overlap.
	ModeCrop Mode = iota
	// ModeWithinBBox keeps only objects fully contained by the bbox,
	// unmodified.
	ModeWithinBBox
	// ModeOutsideBBox keeps only objects that do not intersect the bbox
	// at all, unmodified.
	ModeOutsideBBox
)

// View is a bbox-and-mode filter applied before any content accessor
// runs.
type View struct {
	BBox geom.BBox
	Mode Mode
}

// New builds a View for crop(bbox): keep and clip intersecting content.
func New(bbox geom.BBox) View { return View{BBox: bbox, Mode: ModeCrop} }

// WithinBBox builds a View for within_bbox(bbox): keep only fully
// contained content, unclipped.
func WithinBBox(bbox geom.BBox) View { return View{BBox: bbox, Mode: ModeWithinBBox} }

// OutsideBBox builds a View for outside_bbox(bbox): keep only content
// that doesn't intersect at all.
func OutsideBBox(bbox geom.BBox) View { return View{BBox: bbox, Mode: ModeOutsideBBox} }

// keep reports whether an object's bbox passes the view's filter, and
// (for ModeCrop) returns the clipped bbox to use in its place.
func (v View) keep(b geom.BBox) (geom.BBox, bool) {
	switch v.Mode {
	case ModeWithinBBox:
		return b, v.BBox.Contains(b)
	case ModeOutsideBBox:
		return b, !v.BBox.Intersects(b)
	default: // ModeCrop
		clipped, ok := v.BBox.Intersection(b)
		return clipped, ok
	}
}

// FilterChars applies the view to a char slice, clipping bboxes under
// ModeCrop.
func (v View) FilterChars(chars []material.Char) []material.Char {
	out := make([]material.Char, 0, len(chars))
	for _, c := range chars {
		if clipped, ok := v.keep(c.BBox); ok {
			c.BBox = clipped
			out = append(out, c)
		}
	}
	return out
}

// FilterLines applies the view to a line slice, clipping bboxes under
// ModeCrop.
func (v View) FilterLines(lines []geom.Line) []geom.Line {
	out := make([]geom.Line, 0, len(lines))
	for _, l := range lines {
		if clipped, ok := v.keep(l.BBox); ok {
			l.BBox = clipped
			out = append(out, l)
		}
	}
	return out
}

// FilterRects applies the view to a rect slice, clipping bboxes under
// ModeCrop. A clipped rect's Stroke/Fill flags are preserved even though
// its shape may no longer be the original rectangle's.
func (v View) FilterRects(rects []geom.Rect) []geom.Rect {
	out := make([]geom.Rect, 0, len(rects))
	for _, r := range rects {
		if clipped, ok := v.keep(r.BBox); ok {
			r.BBox = clipped
			out = append(out, r)
		}
	}
	return out
}

// FilterCurves applies the view to a curve slice by bbox only; a
// clipped curve keeps its original sample Points (general path clipping
// is out of scope — only the reported bbox narrows).
func (v View) FilterCurves(curves []geom.Curve) []geom.Curve {
	out := make([]geom.Curve, 0, len(curves))
	for _, c := range curves {
		if clipped, ok := v.keep(c.BBox); ok {
			c.BBox = clipped
			out = append(out, c)
		}
	}
	return out
}

// FilterImages applies the view to an image slice, clipping bboxes
// under ModeCrop.
func (v View) FilterImages(images []material.Image) []material.Image {
	out := make([]material.Image, 0, len(images))
	for _, img := range images {
		if clipped, ok := v.keep(img.BBox); ok {
			img.BBox = clipped
			out = append(out, img)
		}
	}
	return out
}
