/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package croppedpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/internal/geom"
	"github.com/unidoc/pdflayout/internal/material"
)

func charAt(x0, top, x1, bottom float64) material.Char {
	return material.Char{Text: "a", BBox: geom.NewBBox(x0, top, x1, bottom)}
}

func TestCropKeepsAndClipsIntersectingChars(t *testing.T) {
	view := New(geom.NewBBox(0, 0, 100, 100))
	chars := []material.Char{
		charAt(50, 50, 150, 150), // partially inside, should be clipped
		charAt(200, 200, 250, 250), // fully outside, dropped
	}
	out := view.FilterChars(chars)
	require.Len(t, out, 1)
	assert.Equal(t, geom.NewBBox(50, 50, 100, 100), out[0].BBox)
}

func TestWithinBBoxKeepsOnlyFullyContainedChars(t *testing.T) {
	view := WithinBBox(geom.NewBBox(0, 0, 100, 100))
	chars := []material.Char{
		charAt(10, 10, 20, 20),    // fully contained
		charAt(50, 50, 150, 150),  // straddles the edge
	}
	out := view.FilterChars(chars)
	require.Len(t, out, 1)
	assert.Equal(t, geom.NewBBox(10, 10, 20, 20), out[0].BBox)
}

func TestOutsideBBoxKeepsOnlyNonIntersectingChars(t *testing.T) {
	view := OutsideBBox(geom.NewBBox(0, 0, 100, 100))
	chars := []material.Char{
		charAt(10, 10, 20, 20),     // intersects, dropped
		charAt(200, 200, 250, 250), // clear of the box, kept
	}
	out := view.FilterChars(chars)
	require.Len(t, out, 1)
	assert.Equal(t, geom.NewBBox(200, 200, 250, 250), out[0].BBox)
}

func TestFilterLinesRectsCurvesImagesAllRespectMode(t *testing.T) {
	view := New(geom.NewBBox(0, 0, 100, 100))

	lines := []geom.Line{{BBox: geom.NewBBox(50, 50, 150, 50)}}
	outLines := view.FilterLines(lines)
	require.Len(t, outLines, 1)
	assert.Equal(t, 100.0, outLines[0].BBox.X1)

	rects := []geom.Rect{{BBox: geom.NewBBox(-50, -50, 50, 50)}}
	outRects := view.FilterRects(rects)
	require.Len(t, outRects, 1)
	assert.Equal(t, 0.0, outRects[0].BBox.X0)

	curves := []geom.Curve{{BBox: geom.NewBBox(90, 90, 200, 200)}}
	outCurves := view.FilterCurves(curves)
	require.Len(t, outCurves, 1)
	assert.Equal(t, geom.NewBBox(90, 90, 100, 100), outCurves[0].BBox)

	images := []material.Image{{BBox: geom.NewBBox(500, 500, 600, 600)}}
	outImages := view.FilterImages(images)
	assert.Empty(t, outImages)
}
